package strapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
)

// requestError is a non-2xx CMS response.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("cms request error: status=%d message=%s", e.status, e.message)
}

type errorEnvelope struct {
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRequestError(status int, payload []byte) *requestError {
	var env errorEnvelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Error != nil && strings.TrimSpace(env.Error.Message) != "" {
		return &requestError{status: status, message: env.Error.Message}
	}
	return &requestError{status: status, message: fmt.Sprintf("CMS request failed with status %d", status)}
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// videoRecord covers both the v4 shape ({id, attributes:{...}}) and the
// flat v5 shape ({id, documentId, videoId, ...}).
type videoRecord struct {
	ID         int64            `json:"id"`
	DocumentID string           `json:"documentId"`
	VideoID    string           `json:"videoId"`
	Title      string           `json:"title"`
	Summary    string           `json:"summary"`
	CreatedAt  *time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time       `json:"updatedAt"`
	Attributes *json.RawMessage `json:"attributes"`
}

func decodeVideo(payload []byte) (pipeline.PersistedSummary, error) {
	var env dataEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return pipeline.PersistedSummary{}, fmt.Errorf("decode cms response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return pipeline.PersistedSummary{}, errors.New("cms response has no data")
	}
	var rec videoRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return pipeline.PersistedSummary{}, fmt.Errorf("decode cms record: %w", err)
	}
	if rec.Attributes != nil {
		id := rec.ID
		if err := json.Unmarshal(*rec.Attributes, &rec); err != nil {
			return pipeline.PersistedSummary{}, fmt.Errorf("decode cms attributes: %w", err)
		}
		rec.ID = id
	}
	if rec.ID == 0 {
		return pipeline.PersistedSummary{}, errors.New("cms response has no id")
	}
	return pipeline.PersistedSummary{
		ID:         rec.ID,
		DocumentID: rec.DocumentID,
		VideoID:    rec.VideoID,
		Title:      rec.Title,
		Summary:    rec.Summary,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}
