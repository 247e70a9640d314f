package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
)

// S3Archive stores normalized transcripts in an S3-compatible bucket
// (Cloudflare R2, MinIO, AWS).
type S3Archive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
	now    func() time.Time

	bucketReady atomic.Bool
}

// document is the JSON object written per video.
type document struct {
	VideoID    string               `json:"videoId"`
	Text       string               `json:"text"`
	Segments   []transcript.Segment `json:"segments"`
	ArchivedAt time.Time            `json:"archivedAt"`
}

// NewS3Archive constructs the archive adapter.
func NewS3Archive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*S3Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &S3Archive{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "archive.s3"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (a *S3Archive) ensureBucket(ctx context.Context) error {
	if a.bucketReady.Load() {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && exists {
		a.bucketReady.Store(true)
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	a.bucketReady.Store(true)
	return nil
}

// Put uploads the transcript as transcripts/<videoID>.json, replacing any
// earlier copy.
func (a *S3Archive) Put(ctx context.Context, videoID string, t transcript.Normalized) error {
	if err := a.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", a.bucket, err)
	}
	payload, err := json.Marshal(document{
		VideoID:    videoID,
		Text:       t.Text,
		Segments:   t.Segments,
		ArchivedAt: a.now(),
	})
	if err != nil {
		return err
	}
	key := ObjectKey(videoID)
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("transcript archived", "key", key, "size", info.Size)
	return nil
}

// ObjectKey returns the bucket key for a video transcript.
func ObjectKey(videoID string) string {
	return "transcripts/" + videoID + ".json"
}

var _ pipeline.TranscriptArchive = (*S3Archive)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
