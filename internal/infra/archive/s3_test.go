package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/video-summarizer/internal/domain/transcript"
)

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://acct.r2.cloudflarestorage.com", want: "acct.r2.cloudflarestorage.com"},
		{in: "http://localhost:9000/bucket/path", want: "localhost:9000"},
		{in: "  minio:9000 ", want: "minio:9000"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sanitizeEndpoint(tt.in))
		})
	}
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "transcripts/dQw4w9WgXcQ.json", ObjectKey("dQw4w9WgXcQ"))
}

func TestNewS3Archive(t *testing.T) {
	a, err := NewS3Archive("https://localhost:9000", "key", "secret", "transcripts", "auto", nil)
	require.NoError(t, err)
	require.Equal(t, "transcripts", a.bucket)
}

func TestNoop(t *testing.T) {
	require.NoError(t, Noop{}.Put(context.Background(), "x", transcript.Normalized{}))
}
