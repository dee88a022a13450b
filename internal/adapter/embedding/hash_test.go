package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashEmbedder_ShapeAndDeterminism(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	first, err := e.Embed(ctx, []string{"The capital of France is Paris.", "", "bananas"})
	require.NoError(t, err)
	second, err := e.Embed(ctx, []string{"The capital of France is Paris.", "", "bananas"})
	require.NoError(t, err)

	require.Len(t, first, 3)
	for _, v := range first {
		assert.Len(t, v, 64)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 64, e.Dimension())
	assert.Equal(t, "hash", e.ModelName())
}

func TestHashEmbedder_Normalised(t *testing.T) {
	vecs, err := NewHashEmbedder(32).Embed(context.Background(), []string{"one two three"})
	require.NoError(t, err)

	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestHashEmbedder_SharedWordsAreCloser(t *testing.T) {
	e := NewHashEmbedder(256)
	vecs, err := e.Embed(context.Background(), []string{
		"What is the capital of France?",
		"The capital of France is Paris.",
		"Bananas grow in tropical climates near rivers.",
	})
	require.NoError(t, err)

	assert.Greater(t, cosine(vecs[0], vecs[1]), cosine(vecs[0], vecs[2]))
}

func TestHashEmbedder_DefaultDimension(t *testing.T) {
	assert.Equal(t, 256, NewHashEmbedder(0).Dimension())
}
