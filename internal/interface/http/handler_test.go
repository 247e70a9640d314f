package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/video-summarizer/internal/domain/account"
	"github.com/yanqian/video-summarizer/internal/domain/credits"
	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	"github.com/yanqian/video-summarizer/internal/domain/summarizer"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
	"github.com/yanqian/video-summarizer/internal/infra/archive"
	"github.com/yanqian/video-summarizer/internal/infra/runlog"
)

func TestSummarize_AuthCheckedBeforeBody(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		token       string
		wantCode    int
		wantBody    string
		wantFetched []string
	}{
		{
			name:        "short id with token",
			body:        `{"videoId":"abc123"}`,
			token:       "tok",
			wantCode:    http.StatusOK,
			wantBody:    `{"data":{"id":5,"videoId":"abc123","summary":"# Summary"},"error":null}`,
			wantFetched: []string{"abc123"},
		},
		{
			name:     "short id without token",
			body:     `{"videoId":"abc123"}`,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"data":null,"error":"Not authenticated"}`,
		},
		{
			name:     "unreadable body without token",
			body:     `not json`,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"data":null,"error":"Not authenticated"}`,
		},
		{
			name:     "unreadable body with token",
			body:     `not json`,
			token:    "tok",
			wantCode: http.StatusBadRequest,
			wantBody: `{"data":null,"error":{"code":"invalid_input","message":"Invalid Youtube Video ID"}}`,
		},
		{
			name:     "unknown token",
			body:     `{"videoId":"abc123"}`,
			token:    "stale",
			wantCode: http.StatusUnauthorized,
			wantBody: `{"data":null,"error":"Not authenticated"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &recordingFetcher{}
			svc := pipeline.NewService(
				tokenResolver{"tok": {ID: 1, Username: "ana", Credits: 2}},
				credits.NewGate(),
				fetcher,
				fixedGenerator("# Summary"),
				echoStore{},
				runlog.NewMemoryRecorder(10),
				archive.Noop{},
				newTestLogger(),
			)

			recorder := performRequest(newRouterUnderTest(t, svc, nil), http.MethodPost, "/api/summarize", tt.body, tt.token)
			require.Equal(t, tt.wantCode, recorder.Code)
			require.JSONEq(t, tt.wantBody, recorder.Body.String())
			require.Equal(t, tt.wantFetched, fetcher.videoIDs)
		})
	}
}

func TestNormalizeVideoID(t *testing.T) {
	require.Equal(t, "dQw4w9WgXcQ", normalizeVideoID("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42"))
	require.Equal(t, "abc123", normalizeVideoID("  abc123 "))
	require.Equal(t, "", normalizeVideoID(""))
}

type tokenResolver map[string]account.User

func (r tokenResolver) CurrentUser(_ context.Context, token string) (account.User, bool, error) {
	user, ok := r[token]
	return user, ok, nil
}

type recordingFetcher struct {
	videoIDs []string
}

func (f *recordingFetcher) Fetch(_ context.Context, videoID string) ([]transcript.Segment, error) {
	f.videoIDs = append(f.videoIDs, videoID)
	return []transcript.Segment{{Text: "hello"}, {Text: "world"}}, nil
}

type fixedGenerator string

func (g fixedGenerator) Summarize(context.Context, string) (summarizer.Result, error) {
	return summarizer.Result{Text: string(g)}, nil
}

type echoStore struct{}

func (echoStore) CreateSummary(_ context.Context, videoID, summary string) (pipeline.PersistedSummary, error) {
	return pipeline.PersistedSummary{ID: 5, VideoID: videoID, Summary: summary}, nil
}

func (echoStore) UpdateSummary(_ context.Context, req pipeline.UpdateRequest) (pipeline.PersistedSummary, error) {
	return pipeline.PersistedSummary{Title: req.Title, Summary: req.Summary}, nil
}

func (echoStore) DeleteSummary(context.Context, string) error { return nil }
