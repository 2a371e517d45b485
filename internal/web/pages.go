package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	authdelivery "summarizer-backend/internal/auth/delivery"
	authdomain "summarizer-backend/internal/auth/domain"
	authdto "summarizer-backend/internal/auth/dto"
	authusecase "summarizer-backend/internal/auth/usecase"
	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
	summaryusecase "summarizer-backend/internal/summary/usecase"
	"summarizer-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "register", "summary", "history"}

// pageData is the model handed to every template.
type pageData struct {
	Title    string
	Session  *authdomain.Session
	Email    string
	Error    string
	Composer domain.ComposerState
	History  domain.HistoryState
}

// Pages serves the server-rendered UI.
type Pages struct {
	authUsecase    authusecase.AuthUsecase
	summaryUsecase summaryusecase.SummaryUsecase
	cookies        cookieSettings
	templates      map[string]*template.Template
	log            *zap.Logger
}

func NewPages(authUc authusecase.AuthUsecase, summaryUc summaryusecase.SummaryUsecase, cfg *config.Config, log *zap.Logger) (*Pages, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Local().Format("Jan 2, 2006") },
		"truncate":   truncate,
	}

	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		templates[name] = t
	}

	return &Pages{
		authUsecase:    authUc,
		summaryUsecase: summaryUc,
		cookies: cookieSettings{
			secure:        cfg.CookieSecure,
			accessMaxAge:  int(cfg.JWTAccessExpiry.Seconds()),
			refreshMaxAge: int(cfg.JWTRefreshExpiry.Seconds()),
		},
		templates: templates,
		log:       log.Named("web"),
	}, nil
}

func (p *Pages) render(c *gin.Context, status int, name string, data pageData) {
	data.Session = authdelivery.SessionFrom(c)
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := p.templates[name].ExecuteTemplate(c.Writer, "layout", data); err != nil {
		p.log.Error("render failed", zap.String("page", name), zap.Error(err))
	}
}

// Home sends visitors to the composer.
// GET /
func (p *Pages) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/summary")
}

// GET /login
func (p *Pages) LoginPage(c *gin.Context) {
	p.render(c, http.StatusOK, "login", pageData{Title: "Login"})
}

// POST /login
func (p *Pages) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "login", pageData{Title: "Login", Email: req.Email, Error: "Please enter a valid email and password"})
		return
	}

	resp, err := p.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		p.render(c, statusFor(err), "login", pageData{Title: "Login", Email: req.Email, Error: err.Error()})
		return
	}

	p.cookies.set(c, resp)
	c.Redirect(http.StatusSeeOther, "/summary")
}

// GET /register
func (p *Pages) RegisterPage(c *gin.Context) {
	p.render(c, http.StatusOK, "register", pageData{Title: "Register"})
}

// POST /register
func (p *Pages) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "register", pageData{Title: "Register", Email: req.Email, Error: "Password should be at least 6 characters and email must be valid"})
		return
	}

	resp, err := p.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		p.render(c, statusFor(err), "register", pageData{Title: "Register", Email: req.Email, Error: err.Error()})
		return
	}

	p.cookies.set(c, resp)
	c.Redirect(http.StatusSeeOther, "/summary")
}

// POST /logout
func (p *Pages) Logout(c *gin.Context) {
	if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
		if err := p.authUsecase.Logout(c.Request.Context(), token); err != nil {
			p.log.Warn("logout failed", zap.Error(err))
		}
	}
	p.cookies.clear(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// GET /summary
func (p *Pages) SummaryPage(c *gin.Context) {
	p.render(c, http.StatusOK, "summary", pageData{Title: "Summary"})
}

// POST /summary
func (p *Pages) Summarize(c *gin.Context) {
	var req dto.ComposeRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "summary", pageData{Title: "Summary", Composer: domain.ComposerState{Error: err.Error()}})
		return
	}

	resp, err := p.summaryUsecase.Compose(c.Request.Context(), authdelivery.SessionFrom(c), req.Text)
	status := http.StatusOK
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrGenerationFailed):
		status = http.StatusBadGateway
	}
	p.render(c, status, "summary", pageData{Title: "Summary", Composer: resp.State})
}

// GET /history
func (p *Pages) HistoryPage(c *gin.Context) {
	state := domain.HistoryState{}
	items, err := p.summaryUsecase.History(c.Request.Context(), authdelivery.SessionFrom(c))
	if err != nil {
		p.log.Error("history fetch failed", zap.Error(err))
		state.Error = err.Error()
	}
	state.Items = items
	p.render(c, http.StatusOK, "history", pageData{Title: "History", History: state})
}

// POST /history/:id/delete
func (p *Pages) DeleteHistoryItem(c *gin.Context) {
	err := p.summaryUsecase.Delete(c.Request.Context(), authdelivery.SessionFrom(c), c.Param("id"))
	if err != nil && !errors.Is(err, domain.ErrSummaryNotFound) {
		p.log.Error("delete failed", zap.String("id", c.Param("id")), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/history")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, authdomain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
