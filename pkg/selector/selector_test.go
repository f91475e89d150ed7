package selector_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automem-labs/automem-go/pkg/selector"
	"github.com/automem-labs/automem-go/pkg/storage"
)

func fixedFetch(memories []storage.Memory) selector.FetchFunc {
	return func(ctx context.Context, userID, orderBy string) ([]storage.Memory, error) {
		return memories, nil
	}
}

func TestRecencyPolicyNewestFirst(t *testing.T) {
	memories := []storage.Memory{
		{ID: "1", Content: "I prefer dark mode", CreatedAt: "2026-08-25T10:00:00Z"},
		{ID: "2", Content: "My favorite color is blue", CreatedAt: "2026-08-27T10:00:00Z"},
	}

	s := selector.New(5, 0.05)
	got := s.Select(context.Background(), "u1", true, "", fixedFetch(memories))

	require.Equal(t, []string{
		"[Id: 2, Content: My favorite color is blue]",
		"[Id: 1, Content: I prefer dark mode]",
	}, got)
}

func TestRecencyPolicyLimit(t *testing.T) {
	var memories []storage.Memory
	for i := 1; i <= 10; i++ {
		memories = append(memories, storage.Memory{
			ID:        fmt.Sprintf("%d", i),
			Content:   fmt.Sprintf("memory %d", i),
			CreatedAt: fmt.Sprintf("2026-08-%02dT10:00:00Z", i),
		})
	}

	s := selector.New(3, 0.05)
	got := s.Select(context.Background(), "u1", true, "", fixedFetch(memories))

	require.Len(t, got, 3)
	assert.Contains(t, got[0], "Id: 10")
}

func TestRecencyPolicyUndatedSortsLast(t *testing.T) {
	memories := []storage.Memory{
		{ID: "undated", Content: "no date"},
		{ID: "dated", Content: "has date", CreatedAt: "2026-08-27T10:00:00Z"},
	}

	s := selector.New(5, 0.05)
	got := s.Select(context.Background(), "u1", true, "", fixedFetch(memories))

	require.Len(t, got, 2)
	assert.Contains(t, got[0], "Id: dated")
	assert.Contains(t, got[1], "Id: undated")
}

func TestRelevancePolicyOrderingAndThreshold(t *testing.T) {
	memories := []storage.Memory{
		{ID: "1", Content: "I prefer dark mode", CreatedAt: "2026-08-25T10:00:00Z"},
		{ID: "2", Content: "My favorite color is blue", CreatedAt: "2026-08-27T10:00:00Z"},
		{ID: "3", Content: "deploys happen on fridays", CreatedAt: "2026-08-26T10:00:00Z"},
	}

	s := selector.New(5, 0.05)
	got := s.Select(context.Background(), "u1", false, "do I use dark mode", fixedFetch(memories))

	require.NotEmpty(t, got)
	// Only the dark-mode memory shares meaningful vocabulary.
	assert.Contains(t, got[0], "Id: 1")
	for _, line := range got {
		assert.True(t, strings.HasPrefix(line, "[Relevancia: "), line)
	}
}

func TestRelevancePolicyScoresNonIncreasing(t *testing.T) {
	memories := []storage.Memory{
		{ID: "1", Content: "dark mode"},
		{ID: "2", Content: "dark mode is what I use every day"},
		{ID: "3", Content: "I sometimes use dark themes"},
	}

	s := selector.New(5, 0.0)
	got := s.Select(context.Background(), "u1", false, "dark mode", fixedFetch(memories))

	var prev float64 = 1.1
	for _, line := range got {
		var score float64
		_, err := fmt.Sscanf(line, "[Relevancia: %f]", &score)
		require.NoError(t, err)
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}

func TestRelevancePolicyThresholdFiltersAll(t *testing.T) {
	memories := []storage.Memory{
		{ID: "1", Content: "bananas grow quickly"},
	}

	s := selector.New(5, 0.9)
	got := s.Select(context.Background(), "u1", false, "quantum entanglement", fixedFetch(memories))
	assert.Empty(t, got)
}

func TestSelectIdempotent(t *testing.T) {
	memories := []storage.Memory{
		{ID: "1", Content: "I prefer dark mode", CreatedAt: "2026-08-25T10:00:00Z"},
		{ID: "2", Content: "dark themes are great", CreatedAt: "2026-08-27T10:00:00Z"},
	}

	s := selector.New(5, 0.0)
	first := s.Select(context.Background(), "u1", false, "dark mode", fixedFetch(memories))
	second := s.Select(context.Background(), "u1", false, "dark mode", fixedFetch(memories))
	assert.Equal(t, first, second)
}

func TestSelectFetchErrorYieldsEmpty(t *testing.T) {
	failing := func(ctx context.Context, userID, orderBy string) ([]storage.Memory, error) {
		return nil, errors.New("store unavailable")
	}

	s := selector.New(5, 0.05)
	assert.Empty(t, s.Select(context.Background(), "u1", true, "", failing))
	assert.Empty(t, s.Select(context.Background(), "u1", false, "anything", failing))
}

func TestSelectSkipsMemoriesWithoutContent(t *testing.T) {
	memories := []storage.Memory{
		{ID: "1", Content: "", CreatedAt: "2026-08-27T10:00:00Z"},
		{ID: "2", Content: "valid memory", CreatedAt: "2026-08-25T10:00:00Z"},
	}

	s := selector.New(5, 0.05)
	got := s.Select(context.Background(), "u1", true, "", fixedFetch(memories))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Id: 2")
}

func TestFormatMemoryMissingID(t *testing.T) {
	line := selector.FormatMemory(storage.Memory{Content: "anonymous"})
	assert.Equal(t, "[Id: N/A, Content: anonymous]", line)
}
