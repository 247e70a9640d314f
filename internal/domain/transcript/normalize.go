package transcript

import "strings"

// Normalize joins segment texts in order, each followed by a single space,
// and trims the result once.
func Normalize(segments []Segment) Normalized {
	if len(segments) == 0 {
		return Normalized{Segments: []Segment{}, Text: ""}
	}
	var builder strings.Builder
	for _, seg := range segments {
		builder.WriteString(seg.Text)
		builder.WriteByte(' ')
	}
	kept := make([]Segment, len(segments))
	copy(kept, segments)
	return Normalized{
		Segments: kept,
		Text:     strings.TrimSpace(builder.String()),
	}
}
