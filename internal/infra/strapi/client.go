package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/video-summarizer/internal/domain/account"
	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

const (
	defaultBaseURL = "http://localhost:1337"
	videosPath     = "/api/videos"
	mePath         = "/api/users/me"
)

// Client talks to the Strapi REST API that stores summaries and user accounts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     account.TokenSource
	logger     *slog.Logger
}

// NewClient builds a CMS client. Writes authenticate with the token returned
// by tokens at call time.
func NewClient(baseURL string, timeout time.Duration, tokens account.TokenSource, logger *slog.Logger) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger.With("component", "strapi.client"),
	}
}

type videoPayload struct {
	Data videoFields `json:"data"`
}

type videoFields struct {
	VideoID string `json:"videoId,omitempty"`
	Title   string `json:"title,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// CreateSummary stores a new video summary.
func (c *Client) CreateSummary(ctx context.Context, videoID, summary string) (pipeline.PersistedSummary, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return pipeline.PersistedSummary{}, err
	}
	body := videoPayload{Data: videoFields{VideoID: videoID, Summary: summary}}
	return c.writeVideo(ctx, http.MethodPost, videosPath, token, body, "create")
}

// UpdateSummary edits the title and/or summary of a stored video.
func (c *Client) UpdateSummary(ctx context.Context, req pipeline.UpdateRequest) (pipeline.PersistedSummary, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return pipeline.PersistedSummary{}, err
	}
	body := videoPayload{Data: videoFields{Title: req.Title, Summary: req.Summary}}
	return c.writeVideo(ctx, http.MethodPut, videosPath+"/"+url.PathEscape(req.ID), token, body, "update")
}

// DeleteSummary removes a stored video.
func (c *Client) DeleteSummary(ctx context.Context, id string) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodDelete, videosPath+"/"+url.PathEscape(id), token, nil); err != nil {
		return c.persistenceError("delete", err)
	}
	return nil
}

func (c *Client) writeVideo(ctx context.Context, method, path, token string, body videoPayload, op string) (pipeline.PersistedSummary, error) {
	payload, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return pipeline.PersistedSummary{}, c.persistenceError(op, err)
	}
	saved, err := decodeVideo(payload)
	if err != nil {
		return pipeline.PersistedSummary{}, c.persistenceError(op, err)
	}
	return saved, nil
}

// CurrentUser implements account.Resolver against /api/users/me. Rejected
// tokens are reported as not found.
func (c *Client) CurrentUser(ctx context.Context, token string) (account.User, bool, error) {
	if strings.TrimSpace(token) == "" {
		return account.User{}, false, nil
	}
	payload, err := c.do(ctx, http.MethodGet, mePath, token, nil)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) && (reqErr.status == http.StatusUnauthorized || reqErr.status == http.StatusForbidden) {
			return account.User{}, false, nil
		}
		return account.User{}, false, fmt.Errorf("load current user: %w", err)
	}
	var user account.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return account.User{}, false, fmt.Errorf("decode current user: %w", err)
	}
	if user.ID == 0 {
		return account.User{}, false, nil
	}
	return user, true, nil
}

func (c *Client) persistenceError(op string, err error) error {
	c.logger.Warn("cms write failed", "op", op, "error", err)
	message := err.Error()
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		message = reqErr.message
	}
	return apperrors.Wrap(apperrors.CodePersistenceError, message, err)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read cms response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, newRequestError(resp.StatusCode, payload)
	}
	return payload, nil
}

var (
	_ pipeline.SummaryStore = (*Client)(nil)
	_ account.Resolver      = (*Client)(nil)
)
