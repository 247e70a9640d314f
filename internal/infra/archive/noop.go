package archive

import (
	"context"

	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
)

// Noop discards transcripts when archiving is disabled.
type Noop struct{}

// Put implements pipeline.TranscriptArchive.
func (Noop) Put(context.Context, string, transcript.Normalized) error { return nil }

var _ pipeline.TranscriptArchive = Noop{}
