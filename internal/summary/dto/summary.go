package dto

import "summarizer-backend/internal/summary/domain"

type ComposeRequest struct {
	Text string `json:"text" form:"text"`
}

type ComposeResponse struct {
	State  domain.ComposerState `json:"state"`
	Record *domain.Summary      `json:"record,omitempty"`
}

type HistoryResponse struct {
	Items []*domain.Summary `json:"items"`
	Total int               `json:"total"`
}
