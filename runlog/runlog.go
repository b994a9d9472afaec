package runlog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrDuplicateRun is returned when a run id has already been recorded.
var ErrDuplicateRun = errors.New("runlog: run already recorded")

// Record describes one completed run.
type Record struct {
	RunID      string        `json:"run_id"`
	Dataset    string        `json:"dataset"`
	Strategy   string        `json:"strategy"`
	Workers    int           `json:"workers"`
	Aggregator string        `json:"aggregator,omitempty"`
	Fill       string        `json:"fill"`
	Active     int           `json:"active"`
	Sorted     bool          `json:"sorted"`
	Output     string        `json:"output,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	StartedAt  time.Time     `json:"started_at"`
}

// Recorder stores run records.
type Recorder interface {
	// Record stores r. Recording the same dataset and run id twice fails with ErrDuplicateRun.
	Record(ctx context.Context, r Record) error
	// List returns the most recent records of dataset, newest first, at most limit (0 means all).
	List(ctx context.Context, dataset string, limit int) ([]Record, error)
}

// MemoryRecorder is an in-memory Recorder.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records map[string]Record // dataset + "\x00" + run id
}

var _ Recorder = (*MemoryRecorder)(nil)

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{records: make(map[string]Record)}
}

func (m *MemoryRecorder) Record(_ context.Context, r Record) error {
	key := r.Dataset + "\x00" + r.RunID

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[key]; ok {
		return ErrDuplicateRun
	}
	m.records[key] = r
	return nil
}

func (m *MemoryRecorder) List(_ context.Context, dataset string, limit int) ([]Record, error) {
	m.mu.RLock()
	var out []Record
	for _, r := range m.records {
		if r.Dataset == dataset {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(b.RunID, a.RunID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
