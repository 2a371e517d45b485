package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"summarizer-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// OllamaSettings holds the Ollama endpoint, which can change at runtime.
type OllamaSettings struct {
	mu      sync.RWMutex
	baseURL string
	model   string
}

func NewOllamaSettings(baseURL, model string) *OllamaSettings {
	return &OllamaSettings{baseURL: baseURL, model: model}
}

// BaseURL returns the current Ollama base URL
func (s *OllamaSettings) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// Model returns the current Ollama model
func (s *OllamaSettings) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

func (s *OllamaSettings) update(baseURL, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = baseURL
	if model != "" {
		s.model = model
	}
}

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required,url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

type SettingsHandler struct {
	settings *OllamaSettings
	check    func(ctx context.Context, baseURL string) error
}

func NewSettingsHandler(settings *OllamaSettings) *SettingsHandler {
	return &SettingsHandler{settings: settings, check: ai.CheckOllama}
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (h *SettingsHandler) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": h.settings.BaseURL(),
		"ollama_model":    h.settings.Model(),
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (h *SettingsHandler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.settings.update(req.OllamaBaseURL, req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": h.settings.BaseURL(),
		"ollama_model":    h.settings.Model(),
	})
}

// TestOllamaConnection tests if the Ollama server is reachable
// POST /api/settings/ollama/test
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// An empty body tests the current setting.
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.settings.BaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.check(ctx, req.OllamaBaseURL); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
	})
}
