package transcript

import "context"

// Segment is one timed caption unit from a video's caption track.
type Segment struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

// Normalized holds the flattened transcript text next to the segments it came from.
// Text is empty iff Segments is empty.
type Normalized struct {
	Segments []Segment `json:"segments"`
	Text     string    `json:"text"`
}

// Fetcher retrieves the ordered caption segments for a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]Segment, error)
}
