package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authdomain "summarizer-backend/internal/auth/domain"
	authdto "summarizer-backend/internal/auth/dto"
	authrepo "summarizer-backend/internal/auth/repository"
	authusecase "summarizer-backend/internal/auth/usecase"
	summaryrepo "summarizer-backend/internal/summary/repository"
	summaryusecase "summarizer-backend/internal/summary/usecase"
	"summarizer-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSummarizer struct{}

func (stubSummarizer) Summarize(context.Context, string) (string, error) { return "a short summary", nil }
func (stubSummarizer) Name() string                                      { return "stub" }

type testApp struct {
	router *gin.Engine
	auth   authusecase.AuthUsecase
	events []authdomain.SessionEvent
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	authUc := authusecase.NewAuthUsecase(authrepo.NewMemoryUserRepository(), cfg, zap.NewNop())
	summaryUc := summaryusecase.NewSummaryUsecase(summaryrepo.NewMemorySummaryRepository(), stubSummarizer{}, zap.NewNop())

	pages, err := NewPages(authUc, summaryUc, cfg, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	pages.Mount(r)

	app := &testApp{router: r, auth: authUc}
	authUc.OnSessionChange(func(evt authdomain.SessionEvent) {
		app.events = append(app.events, evt)
	})
	return app
}

func (a *testApp) signedOut() int {
	n := 0
	for _, evt := range a.events {
		if evt.State == authdomain.SignedOut {
			n++
		}
	}
	return n
}

func (a *testApp) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signIn(t *testing.T) []*http.Cookie {
	t.Helper()
	resp, err := a.auth.Register(context.Background(), &authdto.RegisterRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	return []*http.Cookie{
		{Name: accessCookie, Value: resp.AccessToken},
		{Name: refreshCookie, Value: resp.RefreshToken},
	}
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/summary", "/history"} {
		w := app.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	w := app.do(http.MethodPost, "/history/some-id/delete", url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRootRedirectsToSummary(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/summary", w.Header().Get("Location"))
}

func TestSignedInUserSkipsLogin(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t)

	w := app.do(http.MethodGet, "/login", nil, cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/summary", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/summary", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	assert.Contains(t, w.Body.String(), "Logout")
}

func TestExpiredAccessCookieIsRenewed(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t)
	cookies[0].Value = "garbage"

	w := app.do(http.MethodGet, "/history", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)

	var renewed bool
	for _, c := range w.Result().Cookies() {
		if c.Name == accessCookie && c.Value != "" {
			renewed = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, renewed)
}

func TestLoginFormSetsCookies(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t)

	w := app.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong-pass"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")

	w = app.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/summary", w.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		names[c.Name] = c.HttpOnly
	}
	assert.True(t, names[accessCookie])
	assert.True(t, names[refreshCookie])
}

func TestSummaryPageFlow(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t)

	w := app.do(http.MethodPost, "/summary", url.Values{"text": {"   "}}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter text to summarize")

	w = app.do(http.MethodPost, "/summary", url.Values{"text": {"a very long article"}}, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a short summary")

	w = app.do(http.MethodGet, "/history", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a very long article")
	assert.NotContains(t, w.Body.String(), "No summaries yet")
}

func TestLogoutClearsCookies(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t)

	w := app.do(http.MethodPost, "/logout", url.Values{}, cookies...)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}

	_, err := app.auth.RefreshToken(context.Background(), cookies[1].Value)
	assert.Error(t, err)
	assert.Equal(t, 1, app.signedOut())
}

func TestLogoutWithExpiredAccessCookieRevokesRefreshToken(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t)
	cookies[0].Value = "expired"

	w := app.do(http.MethodPost, "/logout", url.Values{}, cookies...)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	// No replacement session may be handed out on the way out.
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value, c.Name)
	}

	_, err := app.auth.RefreshToken(context.Background(), cookies[1].Value)
	assert.Error(t, err)
	assert.Equal(t, 1, app.signedOut())
}

func TestSummarizeRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t)

	req := httptest.NewRequest(http.MethodPost, "/summary", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodGet, "/history", nil, cookies...)
	assert.Contains(t, w.Body.String(), "No summaries yet")
}
