package pipeline

import (
	"context"

	"github.com/yanqian/video-summarizer/internal/domain/account"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
)

// Gate authorizes a request before any billable work happens.
type Gate interface {
	Check(user *account.User, token string) error
}

// SummaryStore persists summaries in the content backend. Implementations
// fetch the bearer token themselves on every call.
type SummaryStore interface {
	CreateSummary(ctx context.Context, videoID, summary string) (PersistedSummary, error)
	UpdateSummary(ctx context.Context, req UpdateRequest) (PersistedSummary, error)
	DeleteSummary(ctx context.Context, id string) error
}

// RunRecorder appends run outcomes to a ledger.
type RunRecorder interface {
	Record(ctx context.Context, run RunRecord) error
}

// TranscriptArchive keeps the raw transcript of a run.
type TranscriptArchive interface {
	Put(ctx context.Context, videoID string, t transcript.Normalized) error
}
