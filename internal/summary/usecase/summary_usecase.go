package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	authdomain "summarizer-backend/internal/auth/domain"
	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
	"summarizer-backend/internal/summary/repository"
	"summarizer-backend/pkg/ai"

	"go.uber.org/zap"
)

type summaryUsecase struct {
	repo       repository.SummaryRepository
	summarizer ai.SummarizerService
	publishers []EventPublisher
	log        *zap.Logger
	now        func() time.Time
}

func NewSummaryUsecase(repo repository.SummaryRepository, summarizer ai.SummarizerService, log *zap.Logger) SummaryUsecase {
	return &summaryUsecase{
		repo:       repo,
		summarizer: summarizer,
		log:        log.Named("summary"),
		now:        time.Now,
	}
}

// AddPublisher registers a sink for record events.
func (u *summaryUsecase) AddPublisher(p EventPublisher) {
	if p != nil {
		u.publishers = append(u.publishers, p)
	}
}

// BuildPrompt wraps the user's text in the summarization instruction.
func BuildPrompt(text string) string {
	return "Please summarize the following text in a clear and concise manner:\n\n" +
		text +
		"\n\nProvide only the summary, without any additional commentary."
}

func (u *summaryUsecase) Compose(ctx context.Context, session *authdomain.Session, text string) (*dto.ComposeResponse, error) {
	resp := &dto.ComposeResponse{State: domain.ComposerState{Text: text}}

	if strings.TrimSpace(text) == "" {
		resp.State.Error = domain.MsgEmptyText
		return resp, domain.ErrEmptyText
	}
	if u.summarizer == nil {
		resp.State.Error = domain.MsgGenerationFailed
		return resp, domain.ErrGenerationFailed
	}

	summary, err := u.summarizer.Summarize(ctx, BuildPrompt(text))
	if err != nil {
		u.log.Warn("generation failed", zap.String("provider", u.summarizer.Name()), zap.Error(err))
		resp.State.Error = err.Error()
		if resp.State.Error == "" {
			resp.State.Error = domain.MsgGenerationFailed
		}
		return resp, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	resp.State.Summary = summary

	if session == nil {
		u.log.Warn("no session, summary not saved")
		return resp, nil
	}

	record := &domain.Summary{
		OwnerID:      session.UID,
		OriginalText: text,
		Summary:      summary,
		Timestamp:    u.now(),
	}
	if err := u.repo.Create(ctx, record); err != nil {
		u.log.Error("failed to save summary", zap.String("user_id", session.UID), zap.Error(err))
		resp.State.Error = domain.MsgSaveFailed + err.Error()
		return resp, nil
	}

	resp.Record = record
	u.publish(session.UID, EventSummaryCreated, record)
	return resp, nil
}

// History returns every record owned by session, newest first.
func (u *summaryUsecase) History(ctx context.Context, session *authdomain.Session) ([]*domain.Summary, error) {
	items, err := u.repo.FindByOwner(ctx, session.UID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Summary{}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}

func (u *summaryUsecase) Get(ctx context.Context, session *authdomain.Session, id string) (*domain.Summary, error) {
	s, err := u.repo.FindByID(ctx, session.UID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSummaryNotFound
	}
	return s, nil
}

func (u *summaryUsecase) Delete(ctx context.Context, session *authdomain.Session, id string) error {
	deleted, err := u.repo.Delete(ctx, session.UID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSummaryNotFound
	}

	u.publish(session.UID, EventSummaryDeleted, map[string]string{"id": id})
	return nil
}

func (u *summaryUsecase) publish(userID, event string, payload interface{}) {
	for _, p := range u.publishers {
		p.SendToUser(userID, event, payload)
	}
}
