package web

import (
	"net/http"

	authdelivery "summarizer-backend/internal/auth/delivery"
	authdto "summarizer-backend/internal/auth/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

type cookieSettings struct {
	secure        bool
	accessMaxAge  int
	refreshMaxAge int
}

func (s cookieSettings) set(c *gin.Context, tokens *authdto.TokenResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, tokens.AccessToken, s.accessMaxAge, "/", "", s.secure, true)
	c.SetCookie(refreshCookie, tokens.RefreshToken, s.refreshMaxAge, "/", "", s.secure, true)
}

func (s cookieSettings) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, "", -1, "/", "", s.secure, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", s.secure, true)
}

// LoadSession resolves the session cookie, if any, into the request context.
// An expired access token is renewed once from the refresh cookie.
func (p *Pages) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token, err := c.Cookie(accessCookie); err == nil && token != "" {
			if session, err := p.authUsecase.ValidateToken(ctx, token); err == nil {
				authdelivery.SetSession(c, session)
				c.Next()
				return
			}
		}

		if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
			resp, err := p.authUsecase.RefreshToken(ctx, token)
			if err != nil {
				p.log.Debug("refresh cookie rejected", zap.Error(err))
				p.cookies.clear(c)
			} else {
				p.cookies.set(c, resp)
				authdelivery.SetSession(c, resp.User)
			}
		}
		c.Next()
	}
}

// RequireSession sends visitors without a session to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authdelivery.SessionFrom(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfSignedIn keeps signed-in users off the login and register pages.
func RedirectIfSignedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authdelivery.SessionFrom(c) != nil {
			c.Redirect(http.StatusFound, "/summary")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Mount registers the page routes on r. Logout reads the cookies as sent, so
// it stays outside LoadSession, which may rotate the refresh token.
func (p *Pages) Mount(r *gin.Engine) {
	r.POST("/logout", p.Logout)

	pages := r.Group("/", p.LoadSession())
	{
		pages.GET("/", p.Home)

		guest := pages.Group("/", RedirectIfSignedIn())
		guest.GET("/login", p.LoginPage)
		guest.POST("/login", p.Login)
		guest.GET("/register", p.RegisterPage)
		guest.POST("/register", p.Register)

		member := pages.Group("/", RequireSession())
		member.GET("/summary", p.SummaryPage)
		member.POST("/summary", p.Summarize)
		member.GET("/history", p.HistoryPage)
		member.POST("/history/:id/delete", p.DeleteHistoryItem)
	}
}
