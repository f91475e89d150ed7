// Package relevance provides lexical relevance scoring between stored
// memories and the current user input.
//
// Scoring is purely lexical: no embeddings, no external calls. It blends
// exact word overlap with substring coverage of the input's longer terms,
// which keeps short but meaningful tokens ("AI", "Go") in play while still
// rewarding partial matches of inflected forms.
package relevance

import (
	"math"
	"strings"
)

// Weights for the two score components. Word overlap dominates; substring
// coverage catches inflections and compounds the word split misses.
const (
	wordWeight      = 0.6
	substringWeight = 0.4

	// minImportantTermLen is the minimum length for a term to participate
	// in substring matching. Shorter tokens match too promiscuously.
	minImportantTermLen = 3
)

// Score computes a relevance score between a memory's content and the
// current user input.
//
// The score is a weighted blend:
//   - 60% recall of input words in the memory's word set
//   - 40% substring coverage of input terms with length >= 3
//
// The word split applies no minimum length filter, so short tokens like
// "AI" still count toward exact overlap.
//
// Note the asymmetry: the word component is normalized by the input's word
// count, not the union. A short memory fully contained in a long input
// scores high even when the memory is generic. That recall bias is the
// documented behavior and is relied on by the selection threshold defaults.
//
// Returns a score between 0.0 and 1.0. Either input being empty yields 0.0.
func Score(memoryContent, userInput string) float64 {
	if memoryContent == "" || userInput == "" {
		return 0.0
	}

	memoryLower := strings.ToLower(memoryContent)
	inputLower := strings.ToLower(userInput)

	memoryWords := wordSet(memoryLower)
	inputWords := wordSet(inputLower)

	if len(inputWords) == 0 {
		return 0.0
	}

	matches := 0
	for word := range inputWords {
		if _, ok := memoryWords[word]; ok {
			matches++
		}
	}
	wordScore := float64(matches) / float64(len(inputWords))

	importantTerms := 0
	found := 0
	for word := range inputWords {
		if len(word) < minImportantTermLen {
			continue
		}
		importantTerms++
		if strings.Contains(memoryLower, word) {
			found++
		}
	}

	substringScore := 0.0
	if importantTerms > 0 {
		substringScore = float64(found) / float64(importantTerms)
	}

	final := wordScore*wordWeight + substringScore*substringWeight
	return math.Min(final, 1.0)
}

// PhraseSimilarity computes Jaccard similarity over word bigrams of two
// texts.
//
// It is used as one ingredient of content similarity in duplicate
// detection, not for relevance scoring.
//
// Returns a similarity between 0.0 and 1.0, or 0.0 when either text has
// fewer than two words.
func PhraseSimilarity(text1, text2 string) float64 {
	words1 := strings.Fields(text1)
	words2 := strings.Fields(text2)

	if len(words1) < 2 || len(words2) < 2 {
		return 0.0
	}

	bigrams1 := bigramSet(words1)
	bigrams2 := bigramSet(words2)

	intersection := 0
	for b := range bigrams1 {
		if _, ok := bigrams2[b]; ok {
			intersection++
		}
	}

	union := len(bigrams2)
	for b := range bigrams1 {
		if _, ok := bigrams2[b]; !ok {
			union++
		}
	}

	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// wordSet splits text on whitespace into a set of words.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// bigramSet builds the set of adjacent word pairs.
func bigramSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = struct{}{}
	}
	return set
}
