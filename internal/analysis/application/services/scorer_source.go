package services

import "sync/atomic"

// ScorerSource yields the scorer to use for the next request.
type ScorerSource interface {
	Current() *Scorer
}

// AtomicScorer holds a scorer that can be replaced while requests are in
// flight. In-flight analyses keep the scorer they started with.
type AtomicScorer struct {
	ptr atomic.Pointer[Scorer]
}

// NewAtomicScorer creates a holder with an initial scorer.
func NewAtomicScorer(initial *Scorer) *AtomicScorer {
	a := &AtomicScorer{}
	a.ptr.Store(initial)
	return a
}

// Current returns the active scorer.
func (a *AtomicScorer) Current() *Scorer {
	return a.ptr.Load()
}

// Swap installs next and returns the previous scorer.
func (a *AtomicScorer) Swap(next *Scorer) *Scorer {
	return a.ptr.Swap(next)
}

// Current lets a plain Scorer act as a fixed source.
func (s *Scorer) Current() *Scorer {
	return s
}
