package api

import (
	"net/http"

	"summarizer-backend/internal/auth/delivery"
	summaryDelivery "summarizer-backend/internal/summary/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := delivery.NewAuthHandler(h.authUsecase)
	summaryHandler := summaryDelivery.NewSummaryHandler(h.summaryUsecase)
	settingsHandler := NewSettingsHandler(h.ollama)
	requireAuth := delivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", requireAuth, func(c *gin.Context) {
			h.sseManager.ServeHTTP(c, c.GetString("userID"))
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		summaries := api.Group("/summaries")
		summaries.Use(requireAuth)
		{
			compose := []gin.HandlerFunc{}
			if h.limiter != nil {
				compose = append(compose, h.limiter.Middleware(func(c *gin.Context) string {
					return c.GetString("userID")
				}))
			}
			compose = append(compose, summaryHandler.Compose)

			summaries.POST("", compose...)
			summaries.GET("", summaryHandler.List)
			summaries.GET("/:id", summaryHandler.Get)
			summaries.DELETE("/:id", summaryHandler.Delete)
		}

		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/ollama", settingsHandler.GetOllamaSettings)
			settings.PUT("/ollama", settingsHandler.UpdateOllamaSettings)
			settings.POST("/ollama/test", settingsHandler.TestOllamaConnection)
		}
	}

	h.pages.Mount(r)
}
