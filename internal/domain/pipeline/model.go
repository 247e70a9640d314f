package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/video-summarizer/pkg/metrics"
)

// Stage names a step of a pipeline run.
type Stage string

const (
	StageAuthCheck       Stage = "auth_check"
	StageCreditCheck     Stage = "credit_check"
	StageFetchTranscript Stage = "fetch_transcript"
	StageNormalize       Stage = "normalize"
	StageGenerateSummary Stage = "generate_summary"
	StagePersist         Stage = "persist"
	StageRespond         Stage = "respond"
)

// Request is one summarization request. VideoID is not validated here.
type Request struct {
	VideoID string
	Token   string
}

// SummaryResult is the generated text for one video, created once per
// successful generation and handed to the store unchanged.
type SummaryResult struct {
	VideoID     string
	SummaryText string
}

// PersistedSummary is the record as assigned by the storage backend.
type PersistedSummary struct {
	ID         int64      `json:"id"`
	DocumentID string     `json:"documentId,omitempty"`
	VideoID    string     `json:"videoId"`
	Title      string     `json:"title,omitempty"`
	Summary    string     `json:"summary"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// UpdateRequest edits a stored summary. Empty fields are left untouched.
type UpdateRequest struct {
	ID      string `json:"-"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// RunStatus is the terminal outcome of a run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord is the ledger entry written after every run.
type RunRecord struct {
	ID           uuid.UUID          `json:"id"`
	VideoID      string             `json:"videoId"`
	UserID       int64              `json:"userId,omitempty"`
	Stage        Stage              `json:"stage"`
	Status       RunStatus          `json:"status"`
	ErrorCode    string             `json:"errorCode,omitempty"`
	ErrorMessage string             `json:"errorMessage,omitempty"`
	SummaryID    int64              `json:"summaryId,omitempty"`
	Usage        metrics.TokenUsage `json:"usage"`
	DurationMs   int64              `json:"durationMs"`
	CreatedAt    time.Time          `json:"createdAt"`
}
