package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "splits on punctuation and lowercases",
			text:     "parseJSON(input) -> Result",
			expected: []string{"parsejson", "input", "result"},
		},
		{
			name:     "drops short tokens",
			text:     "a of to the parser",
			expected: []string{"the", "parser"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "only separators",
			text:     "-- :: () //",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVectorize_Deterministic(t *testing.T) {
	tf := NewTermFrequency(DefaultDimension)
	defer tf.Close()

	first := tf.Vectorize("handle payment request handler")
	second := tf.Vectorize("handle payment request handler")

	require.Len(t, first, DefaultDimension)
	assert.Equal(t, first, second)
}

func TestVectorize_EmptyText(t *testing.T) {
	tf := NewTermFrequency(DefaultDimension)
	defer tf.Close()

	vector := tf.Vectorize("")
	require.Len(t, vector, DefaultDimension)
	for _, v := range vector {
		assert.Zero(t, v)
	}
}

func TestVectorize_IdenticalTextsMatchExactly(t *testing.T) {
	tf := NewTermFrequency(DefaultDimension)
	defer tf.Close()

	a := tf.Vectorize("parse json file")
	b := tf.Vectorize("parse json file")
	assert.InDelta(t, 1.0, CosineSimilarityVectors(a, b), 1e-6)
}

func TestVectorize_SharedTermsScoreHigherThanDisjoint(t *testing.T) {
	tf := NewTermFrequency(DefaultDimension)
	defer tf.Close()

	base := tf.Vectorize("parse json payload")
	overlapping := tf.Vectorize("parse json stream")
	disjoint := tf.Vectorize("render html template")

	shared := CosineSimilarityVectors(base, overlapping)
	unrelated := CosineSimilarityVectors(base, disjoint)
	assert.Greater(t, shared, unrelated)
	assert.Greater(t, shared, 0.5)
}

func TestVectorize_WeightsByFrequency(t *testing.T) {
	tf := NewTermFrequency(DefaultDimension)
	defer tf.Close()

	vector := tf.Vectorize("token token token other")

	var max float32
	var sum float32
	for _, v := range vector {
		sum += v
		if v > max {
			max = v
		}
	}
	assert.InDelta(t, 1.0, float64(sum), 1e-6, "weights sum to 1 over total token count")
	assert.InDelta(t, 0.75, float64(max), 1e-6, "dominant term carries its frequency share")
}

func TestDotProduct_LengthMismatch(t *testing.T) {
	assert.Zero(t, DotProduct([]float32{1, 2}, []float32{1}))
	assert.Zero(t, DotProduct(nil, nil))
}

func TestCosineSimilarity_Properties(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}
	c := []float32{1, 1, 0}

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		assert.InDelta(t, 0, CosineSimilarityVectors(a, b), 1e-6)
	})

	t.Run("symmetry", func(t *testing.T) {
		assert.InDelta(t, CosineSimilarityVectors(a, c), CosineSimilarityVectors(c, a), 1e-9)
	})

	t.Run("zero magnitude scores zero", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		assert.Zero(t, CosineSimilarityVectors(a, zero))
	})

	t.Run("dimension mismatch scores zero", func(t *testing.T) {
		assert.Zero(t, CosineSimilarityVectors(a, []float32{1, 0}))
	})

	t.Run("identical vectors score one", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarityVectors(c, c), 1e-6)
	})
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, Magnitude([]float32{3, 4}), 1e-9)
	assert.Zero(t, Magnitude(nil))
}

func TestTermSlot_Stable(t *testing.T) {
	first := termSlot("payment", DefaultDimension)
	second := termSlot("payment", DefaultDimension)
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, DefaultDimension)
}
