package delivery

import (
	"errors"
	"net/http"

	authdelivery "summarizer-backend/internal/auth/delivery"
	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
	"summarizer-backend/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryUsecase usecase.SummaryUsecase
}

func NewSummaryHandler(summaryUsecase usecase.SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{summaryUsecase: summaryUsecase}
}

// Compose summarizes the posted text and saves it to the caller's history
// POST /api/summaries
func (h *SummaryHandler) Compose(c *gin.Context) {
	var req dto.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.summaryUsecase.Compose(c.Request.Context(), authdelivery.SessionFrom(c), req.Text)
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, resp)
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case resp.Record == nil:
		// Generated but not saved; the state carries the reason.
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusCreated, resp)
	}
}

// List returns the caller's summaries, newest first
// GET /api/summaries
func (h *SummaryHandler) List(c *gin.Context) {
	items, err := h.summaryUsecase.History(c.Request.Context(), authdelivery.SessionFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Items: items, Total: len(items)})
}

// Get returns one of the caller's summaries
// GET /api/summaries/:id
func (h *SummaryHandler) Get(c *gin.Context) {
	s, err := h.summaryUsecase.Get(c.Request.Context(), authdelivery.SessionFrom(c), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

// Delete removes one of the caller's summaries
// DELETE /api/summaries/:id
func (h *SummaryHandler) Delete(c *gin.Context) {
	if err := h.summaryUsecase.Delete(c.Request.Context(), authdelivery.SessionFrom(c), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "summary deleted"})
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrSummaryNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
