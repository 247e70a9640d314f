package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{name: "empty", segments: nil, want: ""},
		{name: "two segments", segments: []Segment{{Text: "Hello"}, {Text: "world"}}, want: "Hello world"},
		{name: "single segment", segments: []Segment{{Text: "solo"}}, want: "solo"},
		{
			name:     "inner whitespace preserved",
			segments: []Segment{{Text: " leading"}, {Text: "double  space"}, {Text: "trailing "}},
			want:     "leading double  space trailing",
		},
		{
			name:     "empty segment text keeps separator",
			segments: []Segment{{Text: "a"}, {Text: ""}, {Text: "b"}},
			want:     "a  b",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.segments)
			require.Equal(t, tt.want, got.Text)
			require.Len(t, got.Segments, len(tt.segments))
		})
	}
}

func TestNormalize_MatchesJoinedSegments(t *testing.T) {
	segments := []Segment{
		{Text: "we start", Offset: 0, Duration: 1.5},
		{Text: "with go", Offset: 1.5, Duration: 2},
		{Text: "routines", Offset: 3.5, Duration: 1},
	}
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}

	got := Normalize(segments)
	require.Equal(t, strings.TrimSpace(strings.Join(texts, " ")), got.Text)
	require.Equal(t, segments, got.Segments)
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	segments := []Segment{{Text: "first"}}
	got := Normalize(segments)
	segments[0].Text = "mutated"
	require.Equal(t, "first", got.Segments[0].Text)
}

func TestNormalize_EmptyTextIffNoSegments(t *testing.T) {
	require.Empty(t, Normalize([]Segment{}).Text)
	require.Empty(t, Normalize([]Segment{}).Segments)
	require.NotEmpty(t, Normalize([]Segment{{Text: "x"}}).Text)
}
