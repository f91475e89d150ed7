package core

import (
	"github.com/automem-labs/automem-go/pkg/events"
	"github.com/automem-labs/automem-go/pkg/summarizer"
)

// Option configures a Filter.
//
// Options are applied using the functional options pattern, allowing
// flexible configuration without requiring all parameters.
type Option func(*Filter)

// WithEmitter sets the notification sink for status events. Without an
// emitter all notifications are dropped.
//
// Example:
//
//	filter, _ := core.NewFilter(valves, store, core.WithEmitter(sink))
func WithEmitter(emitter events.Emitter) Option {
	return func(f *Filter) {
		f.emitter = emitter
	}
}

// WithSummarizer replaces the default heuristic summarizer, e.g. with the
// LLM-backed one. The heuristic narrative form is still used as the
// fallback when the replacement fails.
//
// Example:
//
//	llm, _ := openai.NewClient(&openai.Config{APIKey: key})
//	filter, _ := core.NewFilter(valves, store, core.WithSummarizer(llm))
func WithSummarizer(s summarizer.Summarizer) Option {
	return func(f *Filter) {
		f.summarizer = s
	}
}
