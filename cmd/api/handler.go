package api

import (
	authUsecase "summarizer-backend/internal/auth/usecase"
	summaryUsecase "summarizer-backend/internal/summary/usecase"
	"summarizer-backend/internal/web"
	"summarizer-backend/pkg/config"
	"summarizer-backend/pkg/logger"
	"summarizer-backend/pkg/ratelimit"
	"summarizer-backend/pkg/sse"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	summaryUsecase summaryUsecase.SummaryUsecase
	sseManager     *sse.Manager
	ollama         *OllamaSettings
	limiter        *ratelimit.Limiter
	pages          *web.Pages
	config         *config.Config
	log            *zap.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, summaryUc summaryUsecase.SummaryUsecase, sseManager *sse.Manager, ollama *OllamaSettings, cfg *config.Config, log *zap.Logger) (*Handler, error) {
	pages, err := web.NewPages(authUc, summaryUc, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Handler{
		authUsecase:    authUc,
		summaryUsecase: summaryUc,
		sseManager:     sseManager,
		ollama:         ollama,
		pages:          pages,
		config:         cfg,
		log:            log,
	}, nil
}

// SetRateLimiter enables the compose rate limit.
func (h *Handler) SetRateLimiter(l *ratelimit.Limiter) {
	h.limiter = l
}

// Router builds the gin engine with middleware and all routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(h.log))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}
	if len(h.config.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = h.config.AllowedOrigins
	} else {
		// Any origin, without credentials.
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	SetupRoutes(r, h)
	return r
}

func (h *Handler) Start(addr string) error {
	return h.Router().Run(addr)
}
