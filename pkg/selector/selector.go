// Package selector chooses which stored memories to present on a chat turn.
//
// Two mutually exclusive policies exist per call: on the first user message
// of a session the most recent memories are returned (recency policy); on
// later messages the memories scoring highest against the current input are
// returned (relevance policy). Selection never fails a turn: fetch errors
// and malformed records degrade to fewer or no memories.
package selector

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/automem-labs/automem-go/pkg/relevance"
	"github.com/automem-labs/automem-go/pkg/storage"
)

// FetchFunc retrieves the memories for a user in the requested order. The
// order criterion is one of the storage.Order* constants.
type FetchFunc func(ctx context.Context, userID, orderBy string) ([]storage.Memory, error)

// ScoredMemory pairs a memory with its relevance score against one
// specific user input. Instances live only for the duration of a single
// selection call.
type ScoredMemory struct {
	// Memory is the underlying record.
	Memory storage.Memory

	// Content is the memory's text, extracted once.
	Content string

	// Score is the relevance score in [0.0, 1.0].
	Score float64
}

// Selector selects and formats memories for injection.
type Selector struct {
	// maxMemories is the maximum number of memories returned per call.
	maxMemories int

	// threshold is the minimum relevance score under the relevance policy.
	threshold float64
}

// New creates a Selector.
//
// Parameters:
//   - maxMemories: Maximum number of memories to return per selection
//   - relevanceThreshold: Minimum score (0.0-1.0) under the relevance policy
func New(maxMemories int, relevanceThreshold float64) *Selector {
	return &Selector{
		maxMemories: maxMemories,
		threshold:   relevanceThreshold,
	}
}

// Select returns the ordered, formatted memory lines for the current turn.
//
// On the session's first user message the recency policy runs and
// currentInput is ignored; otherwise the relevance policy scores every
// memory against currentInput. An empty result is a normal outcome, not an
// error. Fetch failures are logged and yield an empty result.
func (s *Selector) Select(ctx context.Context, userID string, firstMessage bool, currentInput string, fetch FetchFunc) []string {
	if firstMessage {
		return s.selectRecent(ctx, userID, fetch)
	}
	return s.selectRelevant(ctx, userID, currentInput, fetch)
}

// selectRecent implements the recency policy: newest memories first.
func (s *Selector) selectRecent(ctx context.Context, userID string, fetch FetchFunc) []string {
	memories, err := fetch(ctx, userID, storage.OrderCreatedAtDesc)
	if err != nil {
		log.Printf("selector: fetch failed for user %s, skipping injection: %v", userID, err)
		return nil
	}
	if len(memories) == 0 {
		return nil
	}

	// Re-sort client-side in case the store has no server-side ordering.
	// Undated memories sort as oldest.
	sorted := make([]storage.Memory, len(memories))
	copy(sorted, memories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortKey() > sorted[j].SortKey()
	})

	if len(sorted) > s.maxMemories {
		sorted = sorted[:s.maxMemories]
	}

	formatted := make([]string, 0, len(sorted))
	for _, m := range sorted {
		if m.Content == "" {
			continue
		}
		formatted = append(formatted, FormatMemory(m))
	}
	return formatted
}

// selectRelevant implements the relevance policy: highest-scoring memories
// above the threshold, descending by score.
func (s *Selector) selectRelevant(ctx context.Context, userID, currentInput string, fetch FetchFunc) []string {
	memories, err := fetch(ctx, userID, storage.OrderCreatedAtDesc)
	if err != nil {
		log.Printf("selector: fetch failed for user %s, skipping injection: %v", userID, err)
		return nil
	}

	scored := make([]ScoredMemory, 0, len(memories))
	for _, m := range memories {
		if m.Content == "" {
			continue
		}
		score := relevance.Score(m.Content, currentInput)
		if score <= 0 {
			continue
		}
		if score < s.threshold {
			continue
		}
		scored = append(scored, ScoredMemory{Memory: m, Content: m.Content, Score: score})
	}

	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > s.maxMemories {
		scored = scored[:s.maxMemories]
	}

	formatted := make([]string, 0, len(scored))
	for _, sm := range scored {
		formatted = append(formatted, FormatScoredMemory(sm))
	}
	return formatted
}

// FormatMemory renders a memory for injection under the recency policy.
func FormatMemory(m storage.Memory) string {
	id := m.ID
	if id == "" {
		id = "N/A"
	}
	return fmt.Sprintf("[Id: %s, Content: %s]", id, m.Content)
}

// FormatScoredMemory renders a memory with its relevance score under the
// relevance policy.
func FormatScoredMemory(sm ScoredMemory) string {
	return fmt.Sprintf("[Relevancia: %.2f] %s", sm.Score, FormatMemory(sm.Memory))
}
