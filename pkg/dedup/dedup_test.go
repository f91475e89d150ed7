package dedup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/automem-labs/automem-go/pkg/dedup"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  spaced   out\ttext  ", "spaced out text"},
		{"¿Qué tal?", "qué tal"},
		{"UPPER_case_words", "upper_case_words"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dedup.Normalize(tc.in))
	}
}

func TestIsDuplicateExactMatch(t *testing.T) {
	assert.True(t, dedup.IsDuplicate("hello world", []string{"hello world"}, 0.8))

	// Case, punctuation, and whitespace variations still hash equal.
	assert.True(t, dedup.IsDuplicate("Hello, World!", []string{"hello world"}, 0.8))
	assert.True(t, dedup.IsDuplicate("hello   world", []string{"Hello World."}, 0.8))
}

func TestIsDuplicateNearMatch(t *testing.T) {
	existing := []string{"the user prefers dark mode in every editor"}
	candidate := "the user prefers dark mode in any editor"
	assert.True(t, dedup.IsDuplicate(candidate, existing, 0.5))
}

func TestIsDuplicateDistinctContent(t *testing.T) {
	existing := []string{"my favorite color is blue"}
	candidate := "deploys happen every friday afternoon"
	assert.False(t, dedup.IsDuplicate(candidate, existing, 0.8))
}

func TestIsDuplicateThresholdAboveOne(t *testing.T) {
	// No similarity score can exceed 1.0, so a threshold of 1.1 can only
	// be reached by the exact-hash stage.
	existing := []string{"the user prefers dark mode in every editor"}
	candidate := "the user prefers dark mode in any editor"
	assert.False(t, dedup.IsDuplicate(candidate, existing, 1.1))
}

func TestIsDuplicateThresholdZero(t *testing.T) {
	existing := []string{"completely unrelated sentence about sailing"}
	assert.True(t, dedup.IsDuplicate("sailing is mentioned here", existing, 0.0))
}

func TestIsDuplicateEmptyExisting(t *testing.T) {
	assert.False(t, dedup.IsDuplicate("anything", nil, 0.0))
	assert.False(t, dedup.IsDuplicate("anything", []string{}, 0.8))
}

func TestContentSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"identical text here today", "identical text here today"},
		{"some text", "other words"},
		{"a", "b"},
		{"the user prefers dark mode", "dark mode is preferred by the user"},
	}
	for _, p := range pairs {
		sim := dedup.ContentSimilarity(p[0], p[1])
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestContentSimilarityIdentical(t *testing.T) {
	text := "the user prefers dark mode in every editor"
	assert.InDelta(t, 1.0, dedup.ContentSimilarity(text, text), 1e-9)
}

func TestContentSimilarityKeyTermFallback(t *testing.T) {
	// No token reaches the key-term length, so the word score stands in
	// and an identical pair still blends to 1.0.
	sim := dedup.ContentSimilarity("the cat sat", "the cat sat")
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestNewDetectorDefaults(t *testing.T) {
	assert.Equal(t, dedup.DefaultThreshold, dedup.NewDetector(0).Threshold())
	assert.Equal(t, 0.95, dedup.NewDetector(0.95).Threshold())
}

func TestDetectorIsDuplicate(t *testing.T) {
	detector := dedup.NewDetector(0.8)
	assert.True(t, detector.IsDuplicate("Hello, World!", []string{"hello world"}))
	assert.False(t, detector.IsDuplicate("brand new fact", []string{"hello world"}))
}
