package runlog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
)

// PostgresRecorder appends pipeline runs to the summary_runs table.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder constructs the recorder.
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// Record inserts one run row.
func (r *PostgresRecorder) Record(ctx context.Context, run pipeline.RunRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO summary_runs (
			id, video_id, user_id, stage, status, error_code, error_message,
			summary_id, prompt_tokens, completion_tokens, total_tokens, duration_ms, created_at
		)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, 0), $9, $10, $11, $12, $13)
	`,
		run.ID,
		run.VideoID,
		run.UserID,
		string(run.Stage),
		string(run.Status),
		run.ErrorCode,
		run.ErrorMessage,
		run.SummaryID,
		run.Usage.PromptTokens,
		run.Usage.CompletionTokens,
		run.Usage.TotalTokens,
		run.DurationMs,
		run.CreatedAt,
	)
	return err
}

var _ pipeline.RunRecorder = (*PostgresRecorder)(nil)
