package delivery

import (
	"net/http"
	"strings"

	authdomain "summarizer-backend/internal/auth/domain"
	"summarizer-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	userIDKey  = "userID"
)

// AuthMiddleware guards API routes with a bearer token.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		session, err := authUsecase.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// SetSession attaches session to the request context.
func SetSession(c *gin.Context, session *authdomain.Session) {
	c.Set(sessionKey, session)
	c.Set(userIDKey, session.UID)
}

// SessionFrom returns the session stored by a guard, or nil.
func SessionFrom(c *gin.Context) *authdomain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*authdomain.Session)
	return session
}
