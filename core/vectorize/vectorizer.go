// Package vectorize turns arbitrary text into fixed-dimension numeric vectors
// for similarity comparison.
//
// The projection is statistical term frequency, not a trained embedding:
// cross-node comparisons are "semantic" only in a shallow lexical sense. The
// upside is full determinism — the same text always yields a bit-identical
// vector, cache hit or cold.
package vectorize

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"sort"
	"strings"
	"unicode"

	"github.com/dgraph-io/ristretto"
)

// DefaultDimension is the fixed vector dimensionality shared by every node.
const DefaultDimension = 100

// minTokenLength drops noise tokens ("a", "if", "of") before counting.
const minTokenLength = 3

const (
	defaultNumCounters = 1e5
	defaultMaxCost     = 1 << 26 // 64MB of cached vectors
	defaultBufferItems = 64
)

// Vectorizer converts text into fixed-dimension vectors. Implementations must
// be deterministic: identical input text yields a bit-identical vector.
type Vectorizer interface {
	Vectorize(text string) []float32
	Dimension() int
}

// TermFrequency is the default Vectorizer. It tokenizes on non-alphanumeric
// boundaries, lowercases, drops short tokens, and projects the top-D most
// frequent (term, count) pairs into fixed vector slots. Vectors are cached by
// a content hash of the input text.
type TermFrequency struct {
	dimension int
	cache     *ristretto.Cache
}

// CacheConfig sizes the vector cache.
type CacheConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// NewTermFrequency creates a vectorizer with the given dimension. A dimension
// of 0 or less selects DefaultDimension. The cache is best-effort: a cache
// construction failure disables caching rather than failing vectorization.
func NewTermFrequency(dimension int) *TermFrequency {
	return NewTermFrequencyWithCache(dimension, nil)
}

// NewTermFrequencyWithCache creates a vectorizer with explicit cache sizing.
func NewTermFrequencyWithCache(dimension int, config *CacheConfig) *TermFrequency {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	cfg := applyCacheDefaults(config)

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		cache = nil
	}

	return &TermFrequency{
		dimension: dimension,
		cache:     cache,
	}
}

func applyCacheDefaults(config *CacheConfig) *CacheConfig {
	cfg := &CacheConfig{
		NumCounters: defaultNumCounters,
		MaxCost:     defaultMaxCost,
		BufferItems: defaultBufferItems,
	}
	if config == nil {
		return cfg
	}
	if config.NumCounters > 0 {
		cfg.NumCounters = config.NumCounters
	}
	if config.MaxCost > 0 {
		cfg.MaxCost = config.MaxCost
	}
	if config.BufferItems > 0 {
		cfg.BufferItems = config.BufferItems
	}
	return cfg
}

// Dimension returns the fixed vector dimensionality.
func (tf *TermFrequency) Dimension() int {
	return tf.dimension
}

// Vectorize projects text into a fixed-dimension vector. Empty or all-noise
// text yields the zero vector, which compares as similarity 0 to everything.
func (tf *TermFrequency) Vectorize(text string) []float32 {
	key := contentHash(text)

	if tf.cache != nil {
		if cached, ok := tf.cache.Get(key); ok {
			if vector, ok := cached.([]float32); ok {
				return vector
			}
		}
	}

	vector := tf.project(text)

	if tf.cache != nil {
		tf.cache.Set(key, vector, int64(len(vector)*4))
	}
	return vector
}

// Close releases the cache.
func (tf *TermFrequency) Close() {
	if tf.cache != nil {
		tf.cache.Close()
	}
}

// project computes the term-frequency projection. Each of the top-D terms
// lands in a slot derived from its hash, so texts sharing terms share slots
// and disjoint texts stay (mostly) orthogonal.
func (tf *TermFrequency) project(text string) []float32 {
	vector := make([]float32, tf.dimension)

	counts, total := countTerms(text)
	if total == 0 {
		return vector
	}

	terms := rankTerms(counts)
	if len(terms) > tf.dimension {
		terms = terms[:tf.dimension]
	}
	for _, term := range terms {
		slot := termSlot(term, tf.dimension)
		vector[slot] += float32(counts[term]) / float32(total)
	}
	return vector
}

// termSlot assigns a term its fixed vector slot.
func termSlot(term string, dimension int) int {
	h := fnv.New64a()
	h.Write([]byte(term))
	return int(h.Sum64() % uint64(dimension))
}

// countTerms tokenizes and counts qualifying terms.
func countTerms(text string) (map[string]int, int) {
	counts := make(map[string]int)
	total := 0
	for _, token := range Tokenize(text) {
		counts[token]++
		total++
	}
	return counts, total
}

// rankTerms orders terms by descending count, breaking ties lexically so the
// slot assignment is stable across runs.
func rankTerms(counts map[string]int) []string {
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms
}

// Tokenize splits text on non-alphanumeric boundaries, lowercases, and drops
// tokens shorter than three characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, field := range fields {
		if len(field) >= minTokenLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// contentHash keys the vector cache by text content.
func contentHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
