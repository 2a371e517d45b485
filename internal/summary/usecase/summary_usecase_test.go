package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "summarizer-backend/internal/auth/domain"
	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSummarizer struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

func (f *fakeSummarizer) Name() string { return "fake" }

type failingRepo struct {
	repository.SummaryRepository
}

func (failingRepo) Create(context.Context, *domain.Summary) error {
	return errors.New("permission denied")
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) SendToUser(userID, event string, _ interface{}) {
	p.events = append(p.events, userID+":"+event)
}

var alice = &authdomain.Session{UID: "alice", Email: "alice@example.com"}

func newUsecase(repo repository.SummaryRepository, s *fakeSummarizer) (*summaryUsecase, *recordingPublisher) {
	uc := NewSummaryUsecase(repo, s, zap.NewNop()).(*summaryUsecase)
	pub := &recordingPublisher{}
	uc.AddPublisher(pub)
	return uc, pub
}

func TestComposeEmptyTextSkipsGeneration(t *testing.T) {
	s := &fakeSummarizer{out: "short"}
	uc, _ := newUsecase(repository.NewMemorySummaryRepository(), s)

	for _, text := range []string{"", "   ", "\n\t"} {
		resp, err := uc.Compose(context.Background(), alice, text)
		assert.ErrorIs(t, err, domain.ErrEmptyText)
		assert.Equal(t, domain.MsgEmptyText, resp.State.Error)
		assert.Empty(t, resp.State.Summary)
	}
	assert.Empty(t, s.prompts)
}

func TestComposePersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	s := &fakeSummarizer{out: "short"}
	uc, pub := newUsecase(repo, s)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	resp, err := uc.Compose(ctx, alice, "a long text")
	require.NoError(t, err)
	assert.Equal(t, "short", resp.State.Summary)
	assert.Empty(t, resp.State.Error)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "alice", resp.Record.OwnerID)
	assert.Equal(t, "a long text", resp.Record.OriginalText)
	assert.Equal(t, fixed, resp.Record.Timestamp)

	require.Len(t, s.prompts, 1)
	assert.Equal(t, BuildPrompt("a long text"), s.prompts[0])
	assert.Contains(t, s.prompts[0], "\n\na long text\n\n")

	items, err := uc.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, resp.Record.ID, items[0].ID)
	assert.Equal(t, []string{"alice:" + EventSummaryCreated}, pub.events)
}

func TestComposeGenerationFailure(t *testing.T) {
	repo := repository.NewMemorySummaryRepository()
	uc, pub := newUsecase(repo, &fakeSummarizer{err: errors.New("quota exceeded")})

	resp, err := uc.Compose(context.Background(), alice, "text")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Equal(t, "quota exceeded", resp.State.Error)
	assert.Nil(t, resp.Record)
	assert.Empty(t, pub.events)

	items, _ := repo.FindByOwner(context.Background(), "alice")
	assert.Empty(t, items)
}

func TestComposeSaveFailureKeepsSummary(t *testing.T) {
	uc, pub := newUsecase(failingRepo{}, &fakeSummarizer{out: "short"})

	resp, err := uc.Compose(context.Background(), alice, "text")
	require.NoError(t, err)
	assert.Equal(t, "short", resp.State.Summary)
	assert.Equal(t, "Failed to save summary: permission denied", resp.State.Error)
	assert.Nil(t, resp.Record)
	assert.Empty(t, pub.events)
}

func TestComposeWithoutSessionDoesNotPersist(t *testing.T) {
	repo := repository.NewMemorySummaryRepository()
	uc, _ := newUsecase(repo, &fakeSummarizer{out: "short"})

	resp, err := uc.Compose(context.Background(), nil, "text")
	require.NoError(t, err)
	assert.Equal(t, "short", resp.State.Summary)
	assert.Nil(t, resp.Record)
}

func TestHistorySortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, offset := range []int{2, 0, 5, 1} {
		require.NoError(t, repo.Create(ctx, &domain.Summary{
			ID:        string(rune('a' + i)),
			OwnerID:   "alice",
			Summary:   "s",
			Timestamp: base.Add(time.Duration(offset) * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Summary{ID: "z", OwnerID: "bob", Timestamp: base.Add(10 * time.Hour)}))

	uc, _ := newUsecase(repo, &fakeSummarizer{})
	items, err := uc.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Timestamp.After(items[i-1].Timestamp))
	}
	assert.Equal(t, "c", items[0].ID)
}

func TestHistoryEmptyIsNotNil(t *testing.T) {
	uc, _ := newUsecase(repository.NewMemorySummaryRepository(), &fakeSummarizer{})
	items, err := uc.History(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteRemovesExactlyThatID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	uc, pub := newUsecase(repo, &fakeSummarizer{out: "s"})

	first, err := uc.Compose(ctx, alice, "one")
	require.NoError(t, err)
	second, err := uc.Compose(ctx, alice, "two")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, alice, first.Record.ID))

	items, err := uc.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.Record.ID, items[0].ID)
	assert.Contains(t, pub.events, "alice:"+EventSummaryDeleted)

	_, err = uc.Get(ctx, alice, first.Record.ID)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)

	err = uc.Delete(ctx, &authdomain.Session{UID: "bob"}, second.Record.ID)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)

	got, err := uc.Get(ctx, alice, second.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "two", got.OriginalText)
}
