package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automem-labs/automem-go/pkg/core"
)

func TestDefaultValves(t *testing.T) {
	valves := core.DefaultValves()

	assert.True(t, valves.Enabled)
	assert.True(t, valves.InjectMemories)
	assert.True(t, valves.AutoSaveResponses)
	assert.True(t, valves.FilterDuplicates)
	assert.True(t, valves.EnableSmartSummarization)
	assert.True(t, valves.EnableCache)
	assert.False(t, valves.DebugMode)

	assert.Equal(t, 5, valves.MaxMemoriesToInject)
	assert.Equal(t, 0.05, valves.RelevanceThreshold)
	assert.Equal(t, 10, valves.MinResponseLength)
	assert.Equal(t, 2000, valves.MaxResponseLength)
	assert.Equal(t, 0.8, valves.SimilarityThreshold)
	assert.Equal(t, 150, valves.MinContentForSummary)
	assert.Equal(t, 60, valves.CacheTTLMinutes)

	assert.NoError(t, valves.Validate())
}

func TestValvesValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*core.Valves)
	}{
		{"max memories too low", func(v *core.Valves) { v.MaxMemoriesToInject = 0 }},
		{"max memories too high", func(v *core.Valves) { v.MaxMemoriesToInject = 21 }},
		{"relevance threshold negative", func(v *core.Valves) { v.RelevanceThreshold = -0.1 }},
		{"relevance threshold above one", func(v *core.Valves) { v.RelevanceThreshold = 1.5 }},
		{"min response length zero", func(v *core.Valves) { v.MinResponseLength = 0 }},
		{"max response length too low", func(v *core.Valves) { v.MaxResponseLength = 99 }},
		{"max response length too high", func(v *core.Valves) { v.MaxResponseLength = 10001 }},
		{"similarity threshold above one", func(v *core.Valves) { v.SimilarityThreshold = 1.2 }},
		{"min content for summary too low", func(v *core.Valves) { v.MinContentForSummary = 49 }},
		{"cache ttl too high", func(v *core.Valves) { v.CacheTTLMinutes = 1441 }},
		{"min exceeds max", func(v *core.Valves) {
			v.MinResponseLength = 1000
			v.MaxResponseLength = 500
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			valves := core.DefaultValves()
			tc.mutate(&valves)
			err := valves.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestLoadValvesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valves.json")
	data := `{"max_memories_to_inject": 10, "relevance_threshold": 0.3, "enable_cache": false}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	valves, err := core.LoadValvesFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, valves.MaxMemoriesToInject)
	assert.Equal(t, 0.3, valves.RelevanceThreshold)
	assert.False(t, valves.EnableCache)

	// Unset fields keep their defaults.
	assert.True(t, valves.Enabled)
	assert.Equal(t, 2000, valves.MaxResponseLength)
}

func TestLoadValvesFromFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valves.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_memories_to_inject": 99}`), 0o644))

	_, err := core.LoadValvesFromFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestLoadValvesFromFileMissing(t *testing.T) {
	_, err := core.LoadValvesFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadValvesFromEnv(t *testing.T) {
	t.Setenv("AUTOMEM_MAX_MEMORIES", "3")
	t.Setenv("AUTOMEM_RELEVANCE_THRESHOLD", "0.25")
	t.Setenv("AUTOMEM_ENABLE_CACHE", "false")
	t.Setenv("AUTOMEM_DEBUG", "true")

	valves, err := core.LoadValvesFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3, valves.MaxMemoriesToInject)
	assert.Equal(t, 0.25, valves.RelevanceThreshold)
	assert.False(t, valves.EnableCache)
	assert.True(t, valves.DebugMode)
	assert.Equal(t, 2000, valves.MaxResponseLength)
}

func TestLoadValvesFromEnvIgnoresMalformed(t *testing.T) {
	t.Setenv("AUTOMEM_MAX_MEMORIES", "not-a-number")

	valves, err := core.LoadValvesFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5, valves.MaxMemoriesToInject)
}

func TestDefaultUserValves(t *testing.T) {
	uv := core.DefaultUserValves()

	assert.True(t, uv.ShowStatus)
	assert.True(t, uv.ShowMemoryCount)
	assert.True(t, uv.NotifyOnError)
	assert.False(t, uv.ShowSaveConfirmation)
	assert.False(t, uv.PrivateMode)
	assert.Empty(t, uv.CustomMemoryPrefix)
}
