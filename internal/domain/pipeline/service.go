package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/video-summarizer/internal/domain/account"
	"github.com/yanqian/video-summarizer/internal/domain/summarizer"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
	"github.com/yanqian/video-summarizer/pkg/util"
)

// Service orchestrates summarization runs and edits of stored summaries.
type Service interface {
	Run(ctx context.Context, req Request) (PersistedSummary, error)
	Update(ctx context.Context, token string, req UpdateRequest) (PersistedSummary, error)
	Delete(ctx context.Context, token, id string) error
}

type service struct {
	resolver  account.Resolver
	gate      Gate
	fetcher   transcript.Fetcher
	generator summarizer.Service
	store     SummaryStore
	recorder  RunRecorder
	archive   TranscriptArchive
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the pipeline stages together.
func NewService(
	resolver account.Resolver,
	gate Gate,
	fetcher transcript.Fetcher,
	generator summarizer.Service,
	store SummaryStore,
	recorder RunRecorder,
	archive TranscriptArchive,
	logger *slog.Logger,
) Service {
	return &service{
		resolver:  resolver,
		gate:      gate,
		fetcher:   fetcher,
		generator: generator,
		store:     store,
		recorder:  recorder,
		archive:   archive,
		logger:    logger.With("component", "pipeline.service"),
		now:       util.NowUTC,
	}
}

// Run executes AUTH_CHECK → CREDIT_CHECK → FETCH_TRANSCRIPT → NORMALIZE →
// GENERATE_SUMMARY → PERSIST. Any failure ends the run; nothing is rolled back.
func (s *service) Run(ctx context.Context, req Request) (PersistedSummary, error) {
	started := s.now()
	run := RunRecord{ID: uuid.New(), VideoID: req.VideoID, CreatedAt: started}

	saved, err := s.run(ctx, req, &run)

	run.DurationMs = util.ElapsedMillis(started, s.now())
	if err != nil {
		run.Status = RunFailed
		run.ErrorCode = apperrors.CodeOf(err)
		run.ErrorMessage = apperrors.MessageOf(err)
		s.logger.Warn("pipeline run failed", "run_id", run.ID, "video_id", req.VideoID, "stage", run.Stage, "code", run.ErrorCode, "error", err)
	} else {
		run.Stage = StageRespond
		run.Status = RunSucceeded
		run.SummaryID = saved.ID
		s.logger.Info("pipeline run succeeded", "run_id", run.ID, "video_id", req.VideoID, "summary_id", saved.ID, "duration_ms", run.DurationMs)
	}
	if recErr := s.recorder.Record(ctx, run); recErr != nil {
		s.logger.Warn("run ledger write failed", "run_id", run.ID, "error", recErr)
	}
	return saved, err
}

func (s *service) run(ctx context.Context, req Request, run *RunRecord) (PersistedSummary, error) {
	run.Stage = StageAuthCheck
	user := s.authenticate(ctx, req.Token)
	if err := s.gate.Check(user, req.Token); err != nil {
		if apperrors.IsCode(err, apperrors.CodeInsufficientCredits) {
			run.Stage = StageCreditCheck
		}
		return PersistedSummary{}, err
	}
	run.UserID = user.ID

	run.Stage = StageFetchTranscript
	if strings.TrimSpace(req.VideoID) == "" {
		return PersistedSummary{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Invalid Youtube Video ID", nil)
	}
	segments, err := s.fetcher.Fetch(ctx, req.VideoID)
	if err != nil {
		return PersistedSummary{}, asCode(err, apperrors.CodeTranscriptUnavailable, "Failed to fetch transcript")
	}

	run.Stage = StageNormalize
	normalized := transcript.Normalize(segments)
	if normalized.Text == "" {
		return PersistedSummary{}, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, "Transcript is empty", nil)
	}
	if err := s.archive.Put(ctx, req.VideoID, normalized); err != nil {
		s.logger.Warn("transcript archive failed", "video_id", req.VideoID, "error", err)
	}

	run.Stage = StageGenerateSummary
	generated, err := s.generator.Summarize(ctx, normalized.Text)
	if err != nil {
		return PersistedSummary{}, asCode(err, apperrors.CodeGenerationError, "Summary generation failed")
	}
	run.Usage = generated.Usage
	result := SummaryResult{VideoID: req.VideoID, SummaryText: generated.Text}

	run.Stage = StagePersist
	saved, err := s.store.CreateSummary(ctx, result.VideoID, result.SummaryText)
	if err != nil {
		return PersistedSummary{}, asCode(err, apperrors.CodePersistenceError, "Failed to save summary")
	}
	return saved, nil
}

// Update edits a stored summary. It requires an authenticated user but no credits.
func (s *service) Update(ctx context.Context, token string, req UpdateRequest) (PersistedSummary, error) {
	if _, err := s.requireUser(ctx, token); err != nil {
		return PersistedSummary{}, err
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return PersistedSummary{}, apperrors.Wrap(apperrors.CodeInvalidInput, "summary id cannot be empty", nil)
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Summary) == "" {
		return PersistedSummary{}, apperrors.Wrap(apperrors.CodeInvalidInput, "title or summary is required", nil)
	}
	saved, err := s.store.UpdateSummary(ctx, req)
	if err != nil {
		return PersistedSummary{}, asCode(err, apperrors.CodePersistenceError, "Failed to update summary")
	}
	return saved, nil
}

// Delete removes a stored summary.
func (s *service) Delete(ctx context.Context, token, id string) error {
	if _, err := s.requireUser(ctx, token); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "summary id cannot be empty", nil)
	}
	if err := s.store.DeleteSummary(ctx, id); err != nil {
		return asCode(err, apperrors.CodePersistenceError, "Failed to delete summary")
	}
	return nil
}

func (s *service) requireUser(ctx context.Context, token string) (*account.User, error) {
	user := s.authenticate(ctx, token)
	if user == nil || strings.TrimSpace(token) == "" {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "Not authenticated", nil)
	}
	return user, nil
}

// authenticate returns a nil user when the token does not resolve. Resolver
// failures are logged and treated the same way.
func (s *service) authenticate(ctx context.Context, token string) *account.User {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	user, found, err := s.resolver.CurrentUser(ctx, token)
	if err != nil {
		s.logger.Warn("current user lookup failed", "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return &user
}

// asCode keeps AppErrors from a stage unchanged and classifies anything else.
func asCode(err error, code, message string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(code, message, err)
}
