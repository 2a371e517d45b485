package domain

import (
	"errors"
	"time"
)

// Summary is one persisted summarization result, owned by the session that
// created it.
type Summary struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	OwnerID      string    `json:"ownerId" gorm:"index;not null"`
	OriginalText string    `json:"originalText" gorm:"type:text;not null"`
	Summary      string    `json:"summary" gorm:"type:text;not null"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}

// ComposerState is the state of the summary composition view.
type ComposerState struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// HistoryState is the state of the history view.
type HistoryState struct {
	Items   []*Summary `json:"items"`
	Loading bool       `json:"loading"`
	Error   string     `json:"error,omitempty"`
}

// User-facing messages.
const (
	MsgEmptyText        = "Please enter text to summarize"
	MsgGenerationFailed = "Failed to generate summary"
	MsgSaveFailed       = "Failed to save summary: "
)

var (
	ErrEmptyText        = errors.New("text is empty")
	ErrGenerationFailed = errors.New("summary generation failed")
	ErrSummaryNotFound  = errors.New("summary not found")
)
