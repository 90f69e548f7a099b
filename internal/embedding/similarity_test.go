package embedding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomUnit(r *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(r.NormFloat64())
	}
	return Normalize(v)
}

func TestSimilaritySymmetricAndSelf(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a := randomUnit(r, 768)
		b := randomUnit(r, 768)
		require.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-12)
		require.InDelta(t, 1.0, Similarity(a, a), 1e-6)
	}
}

func TestSimilarityZeroVector(t *testing.T) {
	zero := make([]float32, 4)
	require.Equal(t, 0.0, Similarity(zero, []float32{1, 2, 3, 4}))
	require.Equal(t, 0.0, Similarity([]float32{1, 2, 3, 4}, zero))
	require.Equal(t, 0.0, Similarity(zero, zero))
}

func TestSimilarityMismatchedOrEmpty(t *testing.T) {
	require.Equal(t, 0.0, Similarity([]float32{1, 2}, []float32{1, 2, 3}))
	require.Equal(t, 0.0, Similarity(nil, nil))
}

func TestSimilarityOrthogonalAndOpposite(t *testing.T) {
	require.InDelta(t, 0.0, Similarity([]float32{1, 0}, []float32{0, 1}), 1e-12)
	require.InDelta(t, -1.0, Similarity([]float32{1, 0}, []float32{-2, 0}), 1e-12)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	require.InDelta(t, 0.6, v[0], 1e-6)
	require.InDelta(t, 0.8, v[1], 1e-6)
	require.InDelta(t, 1.0, Norm(v), 1e-5)

	zero := Normalize([]float32{0, 0})
	require.Equal(t, []float32{0, 0}, zero)
	require.False(t, math.IsNaN(float64(zero[0])))
}
