package usecase

import (
	"context"

	authdomain "summarizer-backend/internal/auth/domain"
	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
)

// SummaryUsecase composes summaries and manages a session's history.
type SummaryUsecase interface {
	// Compose validates text, generates a summary and, when session is
	// non-nil, persists it. The returned state always reflects the outcome;
	// the error is non-nil only for empty text and generation failure.
	Compose(ctx context.Context, session *authdomain.Session, text string) (*dto.ComposeResponse, error)
	History(ctx context.Context, session *authdomain.Session) ([]*domain.Summary, error)
	Get(ctx context.Context, session *authdomain.Session, id string) (*domain.Summary, error)
	Delete(ctx context.Context, session *authdomain.Session, id string) error

	AddPublisher(p EventPublisher)
}

// EventPublisher receives record events. Both the SSE manager and the
// Pub/Sub publisher satisfy it.
type EventPublisher interface {
	SendToUser(userID, event string, payload interface{})
}

// Record event names.
const (
	EventSummaryCreated = "summary_created"
	EventSummaryDeleted = "summary_deleted"
)
