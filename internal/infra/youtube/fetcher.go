package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/video-summarizer/internal/domain/transcript"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

const (
	defaultBaseURL   = "https://www.youtube.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.83 Safari/537.36,gzip(gfe)"
	maxPageBytes     = 8 << 20

	msgTooManyRequests = "YouTube is receiving too many requests from this IP and now requires solving a captcha to continue"
)

var errTooManyRequests = errors.New("youtube rate limited the request")

// Options configures the caption fetcher.
type Options struct {
	BaseURL   string
	Language  string
	UserAgent string
	Timeout   time.Duration
}

// Fetcher reads caption tracks the same way the YouTube web player does:
// it scrapes the watch page for the caption track list and downloads the
// timed-text XML of one track.
type Fetcher struct {
	baseURL    string
	language   string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher builds a caption fetcher.
func NewFetcher(opts Options, logger *slog.Logger) *Fetcher {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		baseURL:    strings.TrimRight(base, "/"),
		language:   strings.ToLower(strings.TrimSpace(opts.Language)),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "youtube.fetcher"),
	}
}

// Fetch implements transcript.Fetcher. Every failure is a transcript_unavailable
// AppError wrapping the underlying cause.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	segments, err := f.fetch(ctx, videoID)
	if err != nil {
		f.logger.Warn("transcript fetch failed", "video_id", videoID, "error", err)
		return nil, err
	}
	f.logger.Debug("transcript fetched", "video_id", videoID, "segments", len(segments))
	return segments, nil
}

func (f *Fetcher) fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	page, err := f.get(ctx, f.baseURL+"/watch?v="+url.QueryEscape(videoID))
	if errors.Is(err, errTooManyRequests) {
		return nil, unavailable(msgTooManyRequests, err)
	}
	if err != nil {
		return nil, unavailable("Failed to load the video page", err)
	}

	if bytes.Contains(page, []byte(`class="g-recaptcha"`)) {
		return nil, unavailable(msgTooManyRequests, errTooManyRequests)
	}
	if !bytes.Contains(page, []byte(`"playabilityStatus":`)) {
		return nil, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, fmt.Sprintf("The video is no longer available (%s)", videoID), nil)
	}

	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("Transcript is disabled on this video (%s)", videoID), err)
	}
	if len(tracks) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeTranscriptUnavailable, fmt.Sprintf("No transcripts are available for this video (%s)", videoID), nil)
	}

	track := pickTrack(tracks, f.language)
	trackURL, err := f.resolve(track.BaseURL)
	if err != nil {
		return nil, unavailable("Caption track has an invalid url", err)
	}
	payload, err := f.get(ctx, trackURL)
	if err != nil {
		return nil, unavailable("Failed to download the caption track", err)
	}
	segments, err := parseTimedText(payload)
	if err != nil {
		return nil, unavailable("Failed to parse the caption track", err)
	}
	return segments, nil
}

func (f *Fetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.language != "" {
		req.Header.Set("Accept-Language", f.language)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errTooManyRequests
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (f *Fetcher) resolve(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(f.baseURL + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func unavailable(message string, err error) error {
	return apperrors.Wrap(apperrors.CodeTranscriptUnavailable, message, err)
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type captionsBlock struct {
	Renderer struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// extractCaptionTracks decodes the "captions" object embedded in the player
// response of the watch page.
func extractCaptionTracks(page []byte) ([]captionTrack, error) {
	marker := []byte(`"captions":`)
	idx := bytes.Index(page, marker)
	if idx < 0 {
		return nil, fmt.Errorf("captions block not found")
	}
	var block captionsBlock
	dec := json.NewDecoder(bytes.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&block); err != nil {
		return nil, fmt.Errorf("decode captions block: %w", err)
	}
	return block.Renderer.CaptionTracks, nil
}

// pickTrack prefers a manual track in the requested language, then an
// auto-generated one, then the first track.
func pickTrack(tracks []captionTrack, language string) captionTrack {
	if language != "" {
		var generated *captionTrack
		for i := range tracks {
			if !strings.HasPrefix(strings.ToLower(tracks[i].LanguageCode), language) {
				continue
			}
			if tracks[i].Kind != "asr" {
				return tracks[i]
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated
		}
	}
	return tracks[0]
}

type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(payload []byte) ([]transcript.Segment, error) {
	var doc timedText
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	segments := make([]transcript.Segment, 0, len(doc.Texts))
	for _, item := range doc.Texts {
		segments = append(segments, transcript.Segment{
			Text:     html.UnescapeString(item.Body),
			Offset:   parseSeconds(item.Start),
			Duration: parseSeconds(item.Dur),
		})
	}
	return segments, nil
}

func parseSeconds(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

var _ transcript.Fetcher = (*Fetcher)(nil)
