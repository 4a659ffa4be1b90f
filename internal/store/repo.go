package store

import (
	"context"
	"time"
)

// LLMRequestEvent captures the data for a single LLM request event.
type LLMRequestEvent struct {
	ID           int64
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	CreatedAt    time.Time
}

// EventRepo provides append and query access to the LLM event log.
type EventRepo interface {
	// AppendLLMRequest records one LLM API call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEvent) error

	// RecentLLMRequests returns the newest events first, up to limit.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)
}
