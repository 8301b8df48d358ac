package service

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"ratematch-service/internal/catalog/model"
)

// DefaultThreshold: минимальный взвешенный score, ниже которого совпадения нет.
const DefaultThreshold = 0.5

// Matcher holds the record collection and answers best-match queries.
//
// Readers load the collection pointer once; writers build a new slice and swap
// it, so a reader sees either the old or the new collection, never a mix.
type Matcher struct {
	records   atomic.Pointer[[]model.Record]
	mu        sync.Mutex // serializes writers
	threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	m := &Matcher{threshold: threshold}
	empty := []model.Record{}
	m.records.Store(&empty)
	return m
}

func (m *Matcher) Threshold() float64 { return m.threshold }

func (m *Matcher) snapshot() []model.Record {
	return *m.records.Load()
}

// Load replaces the collection with recs (replace=true) or appends recs to it.
// Records without an ID get a fresh one. The stored copies are returned.
func (m *Matcher) Load(recs []model.Record, replace bool) []model.Record {
	added := make([]model.Record, len(recs))
	for i, r := range recs {
		if strings.TrimSpace(r.ID) == "" {
			r.ID = uuid.NewString()
		}
		added[i] = r
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var next []model.Record
	if replace {
		next = added
	} else {
		cur := m.snapshot()
		next = make([]model.Record, 0, len(cur)+len(added))
		next = append(next, cur...)
		next = append(next, added...)
	}
	m.records.Store(&next)

	out := make([]model.Record, len(added))
	copy(out, added)
	return out
}

// Clear empties the collection. Clearing an empty collection is a no-op.
func (m *Matcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	empty := []model.Record{}
	m.records.Store(&empty)
}

// List returns a copy of the collection in stored order.
func (m *Matcher) List() []model.Record {
	cur := m.snapshot()
	out := make([]model.Record, len(cur))
	copy(out, cur)
	return out
}

func (m *Matcher) Len() int { return len(m.snapshot()) }

// FindBestMatch scores every record and returns the first one with the
// strictly highest score. Returns (nil, 0) when the collection is empty or
// nothing scores above zero.
func (m *Matcher) FindBestMatch(trade, uom string) (*model.Record, float64) {
	var (
		best      *model.Record
		bestScore float64
	)
	cur := m.snapshot()
	for i := range cur {
		s := weightedScore(trade, uom, cur[i].Trade, cur[i].UnitOfMeasure)
		if s > bestScore {
			bestScore = s
			best = &cur[i]
		}
	}
	if best == nil {
		return nil, 0
	}
	rec := *best
	return &rec, bestScore
}

// Match applies the threshold policy on top of FindBestMatch. Only empty
// strings are rejected; whitespace is scored like any other text.
func (m *Matcher) Match(trade, uom string) (model.MatchResult, error) {
	if trade == "" || uom == "" {
		return model.MatchResult{}, fmt.Errorf("%w: trade and unit_of_measure must be provided", ErrValidation)
	}
	rec, score := m.FindBestMatch(trade, uom)
	if rec == nil || score < m.threshold {
		return model.MatchResult{}, fmt.Errorf("%w: best score %.2f", ErrNotFound, score)
	}
	return model.MatchResult{Record: *rec, Score: score}, nil
}
