package runlog

import (
	"context"
	"sync"

	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
)

const defaultMemoryCapacity = 1000

// MemoryRecorder keeps the most recent pipeline runs in-memory.
type MemoryRecorder struct {
	mu       sync.RWMutex
	capacity int
	runs     []pipeline.RunRecord
}

// NewMemoryRecorder constructs a recorder that retains at most capacity runs.
func NewMemoryRecorder(capacity int) *MemoryRecorder {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRecorder{capacity: capacity}
}

// Record appends a run, evicting the oldest one when full.
func (r *MemoryRecorder) Record(_ context.Context, run pipeline.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.runs) >= r.capacity {
		r.runs = r.runs[1:]
	}
	r.runs = append(r.runs, run)
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *MemoryRecorder) Recent(limit int) []pipeline.RunRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	out := make([]pipeline.RunRecord, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out
}

var _ pipeline.RunRecorder = (*MemoryRecorder)(nil)
