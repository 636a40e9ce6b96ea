package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandReproducible(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRandSeedsDiverge(t *testing.T) {
	a := NewRand(1)
	b := NewRand(2)
	assert.NotEqual(t, a.Float64(), b.Float64())
}

func TestRandFloat64Range(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestJitterWithinAmplitude(t *testing.T) {
	r := NewRand(99)
	for i := 0; i < 1000; i++ {
		v := r.Jitter(0.05)
		assert.GreaterOrEqual(t, v, -0.05)
		assert.LessOrEqual(t, v, 0.05)
	}
}

func TestWeightedIndex(t *testing.T) {
	r := NewRand(42)

	assert.Equal(t, 0, r.WeightedIndex(nil))
	assert.Equal(t, 0, r.WeightedIndex([]float64{0, 0, 0}))
	assert.Equal(t, 1, r.WeightedIndex([]float64{0, 5, 0}))

	for i := 0; i < 1000; i++ {
		idx := r.WeightedIndex([]float64{1, 2, 3})
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 3)
	}
}

func TestWeightedIndexSkipsNonPositive(t *testing.T) {
	r := NewRand(5)
	for i := 0; i < 200; i++ {
		idx := r.WeightedIndex([]float64{-1, 0, 4})
		assert.Equal(t, 2, idx)
	}
}
