// Package rng provides random number utilities for outcome rolls
package rng

import (
	"math/rand/v2"
	"sync"
)

// Roller produces random values for probability checks and reward variance
type Roller interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
	// IntN returns a value in [0, n)
	IntN(n int) int
}

// Source implements Roller over math/rand/v2, safe for concurrent use
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a roller seeded from the system entropy pool
func New() *Source {
	return &Source{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a roller with a deterministic seed
func NewSeeded(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed))}
}

// Float64 returns a value in [0.0, 1.0)
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// IntN returns a value in [0, n)
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
