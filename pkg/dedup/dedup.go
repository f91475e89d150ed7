// Package dedup provides duplicate detection for candidate memories.
//
// Detection runs in two stages: an exact match over normalized content
// hashes, then a blended lexical similarity against each stored memory.
// Both stages short-circuit on the first confirmed duplicate.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"regexp"
	"strings"

	"github.com/automem-labs/automem-go/pkg/relevance"
)

// Similarity component weights. Word overlap carries the most signal;
// bigrams catch phrasing, key terms catch reworded restatements.
const (
	wordWeight    = 0.4
	bigramWeight  = 0.3
	keyTermWeight = 0.3

	// minTokenLen filters noise words out of the word-level Jaccard.
	minTokenLen = 3

	// minKeyTermLen selects the distinctive tokens used for the
	// substring-presence component.
	minKeyTermLen = 5
)

// DefaultThreshold is the similarity above which two memories are
// considered duplicates when no threshold is configured.
const DefaultThreshold = 0.8

// punctuation matches everything that is neither a letter, digit,
// underscore, nor whitespace. Unicode classes keep accented and CJK
// content intact.
var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Detector decides whether a candidate memory duplicates already-stored
// content.
//
// Example usage:
//
//	detector := dedup.NewDetector(0.8)
//	if detector.IsDuplicate("Hello, World!", existing) {
//	    // skip persisting
//	}
type Detector struct {
	// threshold is the similarity at or above which a candidate is
	// considered a duplicate.
	threshold float64
}

// NewDetector creates a new duplicate detector.
//
// threshold is the similarity cutoff (0.0-1.0). If 0, DefaultThreshold is
// used.
func NewDetector(threshold float64) *Detector {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Threshold returns the configured similarity cutoff.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// IsDuplicate reports whether candidate duplicates any of the existing
// memory contents.
//
// A candidate is a duplicate when its normalized hash equals that of an
// existing memory, or when its content similarity to one reaches the
// detector's threshold. Scanning stops at the first confirmed duplicate.
func (d *Detector) IsDuplicate(candidate string, existing []string) bool {
	return IsDuplicate(candidate, existing, d.threshold)
}

// IsDuplicate reports whether candidate duplicates any of the existing
// memory contents, using an explicit similarity threshold.
//
// A threshold above 1.0 disables the similarity stage entirely, since no
// similarity score can exceed 1.0; exact-hash matches still apply.
func IsDuplicate(candidate string, existing []string, threshold float64) bool {
	candidateHash := contentHash(candidate)

	for _, memory := range existing {
		if contentHash(memory) == candidateHash {
			return true
		}
	}

	for _, memory := range existing {
		if ContentSimilarity(candidate, memory) >= threshold {
			return true
		}
	}

	return false
}

// Normalize canonicalizes content for exact-duplicate hashing: lowercase,
// punctuation stripped, whitespace runs collapsed, leading and trailing
// space trimmed.
func Normalize(content string) string {
	normalized := strings.ToLower(content)
	normalized = punctuation.ReplaceAllString(normalized, "")
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// contentHash returns the MD5 digest of the normalized content. MD5 is
// used as a fingerprint only, never for security.
func contentHash(content string) string {
	sum := md5.Sum([]byte(Normalize(content)))
	return hex.EncodeToString(sum[:])
}

// ContentSimilarity computes a blended lexical similarity between two
// texts.
//
// The blend is:
//   - 40% word-level Jaccard over tokens with length >= 3
//   - 30% bigram Jaccard (phrase similarity)
//   - 30% key-term presence: the fraction of the first text's tokens with
//     length >= 5 found as substrings of the second text; falls back to
//     the word Jaccard when the first text has no such tokens
//
// Returns a similarity between 0.0 and 1.0.
func ContentSimilarity(text1, text2 string) float64 {
	lower1 := strings.ToLower(text1)
	lower2 := strings.ToLower(text2)

	wordScore := wordJaccard(lower1, lower2)
	bigramScore := relevance.PhraseSimilarity(lower1, lower2)
	keyTermScore := keyTermPresence(lower1, lower2, wordScore)

	combined := wordScore*wordWeight + bigramScore*bigramWeight + keyTermScore*keyTermWeight
	return math.Min(combined, 1.0)
}

// wordJaccard computes Jaccard similarity over tokens with length >=
// minTokenLen.
func wordJaccard(text1, text2 string) float64 {
	set1 := tokenSet(text1, minTokenLen)
	set2 := tokenSet(text2, minTokenLen)

	if len(set1) == 0 && len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range set1 {
		if _, ok := set2[token]; ok {
			intersection++
		}
	}

	union := len(set2)
	for token := range set1 {
		if _, ok := set2[token]; !ok {
			union++
		}
	}

	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// keyTermPresence computes the fraction of text1's distinctive tokens
// (length >= minKeyTermLen) found as substrings of text2. When text1 has
// no such tokens, the word-Jaccard score stands in.
func keyTermPresence(text1, text2 string, fallback float64) float64 {
	keyTerms := tokenSet(text1, minKeyTermLen)
	if len(keyTerms) == 0 {
		return fallback
	}

	found := 0
	for term := range keyTerms {
		if strings.Contains(text2, term) {
			found++
		}
	}
	return float64(found) / float64(len(keyTerms))
}

// tokenSet splits text on whitespace and keeps tokens of at least minLen.
func tokenSet(text string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		if len(token) >= minLen {
			set[token] = struct{}{}
		}
	}
	return set
}
