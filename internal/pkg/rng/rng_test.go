package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mistwood/cultivation-api/internal/pkg/rng"
)

func TestSourceRanges(t *testing.T) {
	r := rng.New()
	for i := 0; i < 100; i++ {
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		n := r.IntN(6)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	a := rng.NewSeeded(42)
	b := rng.NewSeeded(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestScriptedSequence(t *testing.T) {
	s := &rng.Scripted{Floats: []float64{0.1, 0.9}, Ints: []int{3}}

	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.9, s.Float64(), "last value repeats")

	assert.Equal(t, 3, s.IntN(10))
	assert.Equal(t, 1, s.IntN(2), "scripted ints clamp to [0, n)")
}

func TestScriptedEmpty(t *testing.T) {
	s := &rng.Scripted{}
	assert.Equal(t, 0.0, s.Float64())
	assert.Equal(t, 0, s.IntN(5))
}
