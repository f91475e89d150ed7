package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Valves is the filter's global configuration: a flat set of named,
// bounded options read at call time and never mutated by the pipeline
// itself. The host's settings surface owns mutation.
type Valves struct {
	// Enabled turns the whole filter on or off.
	Enabled bool `json:"enabled"`

	// InjectMemories enables memory injection on inlet.
	InjectMemories bool `json:"inject_memories"`

	// MaxMemoriesToInject bounds how many memories a turn receives (1-20).
	MaxMemoriesToInject int `json:"max_memories_to_inject"`

	// RelevanceThreshold is the minimum relevance score (0.0-1.0) for a
	// memory to be injected under the relevance policy.
	RelevanceThreshold float64 `json:"relevance_threshold"`

	// AutoSaveResponses enables automatic persistence on outlet.
	AutoSaveResponses bool `json:"auto_save_responses"`

	// MinResponseLength is the minimum assistant reply length to consider
	// saving (1-1000).
	MinResponseLength int `json:"min_response_length"`

	// MaxResponseLength is the maximum assistant reply length before
	// truncation, and the basis of the summarizer's budget (100-10000).
	MaxResponseLength int `json:"max_response_length"`

	// FilterDuplicates suppresses candidates that duplicate stored
	// memories.
	FilterDuplicates bool `json:"filter_duplicates"`

	// SimilarityThreshold is the duplicate-similarity cutoff (0.0-1.0).
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// EnableSmartSummarization enables heuristic extraction instead of
	// storing the plain narrative.
	EnableSmartSummarization bool `json:"enable_smart_summarization"`

	// MinContentForSummary is the narrative length below which extraction
	// is not attempted (50-500).
	MinContentForSummary int `json:"min_content_for_summary"`

	// EnableCache memoizes store reads between turns.
	EnableCache bool `json:"enable_cache"`

	// CacheTTLMinutes is the read-cache entry lifetime (1-1440).
	CacheTTLMinutes int `json:"cache_ttl_minutes"`

	// DebugMode enables verbose pipeline logging.
	DebugMode bool `json:"debug_mode"`
}

// UserValves are per-user preference settings supplied by the host
// alongside the user identity.
type UserValves struct {
	// ShowStatus shows a status notification while saving.
	ShowStatus bool `json:"show_status"`

	// ShowMemoryCount notifies how many memories were injected.
	ShowMemoryCount bool `json:"show_memory_count"`

	// ShowSaveConfirmation notifies when a memory was saved.
	ShowSaveConfirmation bool `json:"show_save_confirmation"`

	// NotifyOnError notifies the user when persistence fails.
	NotifyOnError bool `json:"notify_on_error"`

	// CustomMemoryPrefix overrides the default injection header prefix.
	CustomMemoryPrefix string `json:"custom_memory_prefix"`

	// PrivateMode suppresses automatic saving entirely.
	PrivateMode bool `json:"private_mode"`
}

// DefaultValves returns the shipped configuration defaults.
func DefaultValves() Valves {
	return Valves{
		Enabled:                  true,
		InjectMemories:           true,
		MaxMemoriesToInject:      5,
		RelevanceThreshold:       0.05,
		AutoSaveResponses:        true,
		MinResponseLength:        10,
		MaxResponseLength:        2000,
		FilterDuplicates:         true,
		SimilarityThreshold:      0.8,
		EnableSmartSummarization: true,
		MinContentForSummary:     150,
		EnableCache:              true,
		CacheTTLMinutes:          60,
	}
}

// DefaultUserValves returns the default per-user preferences.
func DefaultUserValves() UserValves {
	return UserValves{
		ShowStatus:      true,
		ShowMemoryCount: true,
		NotifyOnError:   true,
	}
}

// Validate checks every bounded option against its documented range.
func (v *Valves) Validate() error {
	checks := []struct {
		ok   bool
		desc string
	}{
		{v.MaxMemoriesToInject >= 1 && v.MaxMemoriesToInject <= 20, "max_memories_to_inject must be in [1, 20]"},
		{v.RelevanceThreshold >= 0.0 && v.RelevanceThreshold <= 1.0, "relevance_threshold must be in [0.0, 1.0]"},
		{v.MinResponseLength >= 1 && v.MinResponseLength <= 1000, "min_response_length must be in [1, 1000]"},
		{v.MaxResponseLength >= 100 && v.MaxResponseLength <= 10000, "max_response_length must be in [100, 10000]"},
		{v.SimilarityThreshold >= 0.0 && v.SimilarityThreshold <= 1.0, "similarity_threshold must be in [0.0, 1.0]"},
		{v.MinContentForSummary >= 50 && v.MinContentForSummary <= 500, "min_content_for_summary must be in [50, 500]"},
		{v.CacheTTLMinutes >= 1 && v.CacheTTLMinutes <= 1440, "cache_ttl_minutes must be in [1, 1440]"},
		{v.MinResponseLength <= v.MaxResponseLength, "min_response_length cannot exceed max_response_length"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, c.desc)
		}
	}
	return nil
}

// LoadValvesFromFile loads valves from a JSON file. Missing fields keep
// their defaults.
func LoadValvesFromFile(path string) (*Valves, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadValvesFromFile: %w", err)
	}

	valves := DefaultValves()
	if err := json.Unmarshal(data, &valves); err != nil {
		return nil, fmt.Errorf("LoadValvesFromFile: %w", err)
	}

	if err := valves.Validate(); err != nil {
		return nil, err
	}
	return &valves, nil
}

// LoadValvesFromEnv loads valves from environment variables, reading a
// .env file first when one exists in the working directory.
//
// Supported variables (all optional, defaults apply):
//   - AUTOMEM_ENABLED, AUTOMEM_INJECT_MEMORIES, AUTOMEM_AUTO_SAVE
//   - AUTOMEM_MAX_MEMORIES, AUTOMEM_RELEVANCE_THRESHOLD
//   - AUTOMEM_MIN_RESPONSE_LENGTH, AUTOMEM_MAX_RESPONSE_LENGTH
//   - AUTOMEM_FILTER_DUPLICATES, AUTOMEM_SIMILARITY_THRESHOLD
//   - AUTOMEM_SMART_SUMMARIZATION, AUTOMEM_MIN_CONTENT_FOR_SUMMARY
//   - AUTOMEM_ENABLE_CACHE, AUTOMEM_CACHE_TTL_MINUTES
//   - AUTOMEM_DEBUG
func LoadValvesFromEnv() (*Valves, error) {
	_ = godotenv.Load()

	valves := DefaultValves()

	readBool("AUTOMEM_ENABLED", &valves.Enabled)
	readBool("AUTOMEM_INJECT_MEMORIES", &valves.InjectMemories)
	readBool("AUTOMEM_AUTO_SAVE", &valves.AutoSaveResponses)
	readBool("AUTOMEM_FILTER_DUPLICATES", &valves.FilterDuplicates)
	readBool("AUTOMEM_SMART_SUMMARIZATION", &valves.EnableSmartSummarization)
	readBool("AUTOMEM_ENABLE_CACHE", &valves.EnableCache)
	readBool("AUTOMEM_DEBUG", &valves.DebugMode)

	readInt("AUTOMEM_MAX_MEMORIES", &valves.MaxMemoriesToInject)
	readInt("AUTOMEM_MIN_RESPONSE_LENGTH", &valves.MinResponseLength)
	readInt("AUTOMEM_MAX_RESPONSE_LENGTH", &valves.MaxResponseLength)
	readInt("AUTOMEM_MIN_CONTENT_FOR_SUMMARY", &valves.MinContentForSummary)
	readInt("AUTOMEM_CACHE_TTL_MINUTES", &valves.CacheTTLMinutes)

	readFloat("AUTOMEM_RELEVANCE_THRESHOLD", &valves.RelevanceThreshold)
	readFloat("AUTOMEM_SIMILARITY_THRESHOLD", &valves.SimilarityThreshold)

	if err := valves.Validate(); err != nil {
		return nil, err
	}
	return &valves, nil
}

// readBool parses a boolean environment variable into dst when set.
func readBool(key string, dst *bool) {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			*dst = parsed
		}
	}
}

// readInt parses an integer environment variable into dst when set.
func readInt(key string, dst *int) {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			*dst = parsed
		}
	}
}

// readFloat parses a float environment variable into dst when set.
func readFloat(key string, dst *float64) {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			*dst = parsed
		}
	}
}
