// Package history keeps the most recent evaluations in memory.
package history

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/spigell/cv-evaluator/internal/result"
)

// DefaultCapacity is used when New receives a non-positive capacity.
const DefaultCapacity = 100

// ErrNoEvaluations is returned by AggregateStats when no successful entry exists.
var ErrNoEvaluations = errors.New("no successful evaluations recorded")

// Entry is the compact record kept for every evaluation.
type Entry struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Filename       string    `json:"filename"`
	Score          int       `json:"score"`
	Classification string    `json:"classification"`
	CandidateName  string    `json:"candidate_name"`
	Success        bool      `json:"success"`
}

// Stats aggregates successful entries.
type Stats struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Max       int     `json:"max"`
	Min       int     `json:"min"`
	PassCount int     `json:"pass_count"`
	PassRate  float64 `json:"pass_rate"`
}

// History is a bounded FIFO of entries plus the latest full result. It is
// safe for concurrent use.
type History struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	latest   *result.EvaluationResult
}

// New returns an empty History holding at most capacity entries.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity, entries: make([]Entry, 0, capacity)}
}

// Record appends r, evicting the oldest entry when full.
func (h *History) Record(r *result.EvaluationResult) Entry {
	if r == nil {
		return Entry{}
	}

	entry := Entry{
		ID:             r.ID,
		Timestamp:      r.EvaluatedAt,
		Filename:       r.Filename,
		Score:          r.Score,
		Classification: r.Classification,
		CandidateName:  r.CandidateName,
		Success:        r.Success,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, entry)
	if r.Success {
		h.latest = r.Clone()
	}

	return entry
}

// Latest returns a copy of the most recent successful result.
func (h *History) Latest() (*result.EvaluationResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.latest == nil {
		return nil, false
	}
	return h.latest.Clone(), true
}

// Entries returns the entries oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]Entry(nil), h.entries...)
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

// Capacity returns the maximum number of entries.
func (h *History) Capacity() int {
	return h.capacity
}

// Stats aggregates the stored entries.
func (h *History) Stats() (Stats, error) {
	return AggregateStats(h.Entries())
}

// AggregateStats computes count, mean, extremes and pass rate over the
// successful entries. Mean and pass rate are rounded to one decimal.
func AggregateStats(entries []Entry) (Stats, error) {
	var stats Stats
	total := 0

	for _, e := range entries {
		if !e.Success {
			continue
		}
		if stats.Count == 0 || e.Score > stats.Max {
			stats.Max = e.Score
		}
		if stats.Count == 0 || e.Score < stats.Min {
			stats.Min = e.Score
		}
		if e.Score >= result.PassingScore {
			stats.PassCount++
		}
		total += e.Score
		stats.Count++
	}

	if stats.Count == 0 {
		return Stats{}, ErrNoEvaluations
	}

	stats.Mean = round1(float64(total) / float64(stats.Count))
	stats.PassRate = round1(float64(stats.PassCount) / float64(stats.Count) * 100)
	return stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
