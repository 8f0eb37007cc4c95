package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single model request event.
type LLMRequestEventData struct {
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
}

// LLMRequestEvent is a stored request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// AnalysisEventData captures one analysis attempt of a practice character.
type AnalysisEventData struct {
	AttemptID      string
	Language       string
	Level          string
	Character      string
	StrokeCount    int
	StrokeScore    *int
	FormationScore *int
	OverallScore   *int
	Parser         string
	Recognized     bool
	LatencyMs      int64
	ErrorMessage   string
}

// AnalysisEvent is a stored analysis attempt.
type AnalysisEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnalysisEventData
}

// UsageStat aggregates request events by a grouping key.
type UsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// PracticeStat aggregates analysis attempts per language and level.
type PracticeStat struct {
	Language          string
	Level             string
	Attempts          int
	Failures          int
	AvgStrokeScore    float64
	AvgFormationScore float64
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	// AppendLLMRequest records a model API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendAnalysis records one analysis attempt.
	AppendAnalysis(ctx context.Context, data AnalysisEventData) error

	// QueryLLMEvents returns request events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a request event by ID, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates request events by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]UsageStat, error)

	// LLMUsageByModel aggregates request events by model.
	LLMUsageByModel(ctx context.Context) ([]UsageStat, error)

	// QueryAnalyses returns analysis events newest first.
	QueryAnalyses(ctx context.Context, opts QueryOpts) ([]AnalysisEvent, error)

	// PracticeStats aggregates analysis events per language and level.
	PracticeStats(ctx context.Context) ([]PracticeStat, error)
}
