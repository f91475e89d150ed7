package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/automem-labs/automem-go/pkg/cache"
	"github.com/automem-labs/automem-go/pkg/dedup"
	"github.com/automem-labs/automem-go/pkg/events"
	"github.com/automem-labs/automem-go/pkg/selector"
	"github.com/automem-labs/automem-go/pkg/storage"
	"github.com/automem-labs/automem-go/pkg/summarizer"
)

// DefaultMemoryPrefix heads the injected system message when the user has
// not configured a custom prefix.
const DefaultMemoryPrefix = "📘 Memoria previa:"

// Injection headers describing which policy produced the memories.
const (
	recentHeader   = "[Memorias recientes para continuidad de contexto]"
	relevantHeader = "[Memorias relevantes al contexto actual]"
)

// Filter is the auto-memory pipeline.
//
// ProcessInlet runs at the start of a chat turn and injects prior memories
// as a system message; ProcessOutlet runs at the end and persists a
// compact summary of the turn. Both are best-effort: degraded behavior
// (fewer or no memories injected, a turn not saved) never fails the chat.
//
// A Filter is safe for concurrent use across users; per-user isolation is
// the caller's responsibility via the user ID on every call.
//
// Example usage:
//
//	store, _ := sqlite.NewClient(&sqlite.Config{DBPath: "./memories.db"})
//	filter, _ := core.NewFilter(core.DefaultValves(), store)
//
//	messages, turn, _ := filter.ProcessInlet(ctx, messages, user)
//	// ... host generates the assistant reply ...
//	_ = filter.ProcessOutlet(ctx, messages, user, turn)
type Filter struct {
	// valves is the global configuration, read at call time.
	valves Valves

	// store is the external memory store.
	store storage.Store

	// summarizer compresses turns before persistence.
	summarizer summarizer.Summarizer

	// heuristic always exists and provides the narrative fallback even
	// when a replacement summarizer is configured.
	heuristic *summarizer.Heuristic

	// emitter receives status notifications (may be nil).
	emitter events.Emitter

	// readCache memoizes store reads (nil when caching is disabled).
	readCache *cache.MemoryCache

	// node generates memory IDs.
	node *snowflake.Node
}

// NewFilter creates the pipeline.
//
// Parameters:
//   - valves: Global configuration; validated against its bounds
//   - store: Memory store backend (required)
//   - opts: Optional emitter and summarizer overrides
//
// Returns the Filter, or an error when the configuration is invalid or
// the store is missing.
func NewFilter(valves Valves, store storage.Store, opts ...Option) (*Filter, error) {
	if err := valves.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, NewPipelineError("NewFilter", ErrNoStore)
	}

	heuristic, err := summarizer.NewHeuristic(summarizer.Config{
		EnableSmartSummarization: valves.EnableSmartSummarization,
		MinContentForSummary:     valves.MinContentForSummary,
		MaxResponseLength:        valves.MaxResponseLength,
	})
	if err != nil {
		return nil, NewPipelineError("NewFilter", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewPipelineError("NewFilter", err)
	}

	f := &Filter{
		valves:     valves,
		store:      store,
		summarizer: heuristic,
		heuristic:  heuristic,
		node:       node,
	}

	if valves.EnableCache {
		f.readCache = cache.New(cache.DefaultMaxSize, time.Duration(valves.CacheTTLMinutes)*time.Minute)
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Valves returns the filter's current configuration.
func (f *Filter) Valves() Valves {
	return f.valves
}

// ProcessInlet runs the start-of-turn hook: it selects prior memories for
// the conversation and, when any qualify, prepends them as a system
// message.
//
// The returned TurnContext must be handed back to ProcessOutlet for the
// same turn; it is the only state shared between the two calls. The
// original message slice is never modified.
//
// Selection is best-effort: store failures yield an unmodified
// conversation, not an error.
func (f *Filter) ProcessInlet(ctx context.Context, messages []Message, user User) ([]Message, *TurnContext, error) {
	turn := &TurnContext{UserID: user.ID}

	if !f.valves.Enabled || !f.valves.InjectMemories {
		return messages, turn, nil
	}
	if user.ID == "" {
		f.debugf("inlet: missing user id, skipping injection")
		return messages, turn, nil
	}

	turn.FirstMessage = IsFirstMessage(messages)
	turn.CurrentInput = LastUserMessage(messages)

	sel := selector.New(f.valves.MaxMemoriesToInject, f.valves.RelevanceThreshold)
	memories := sel.Select(ctx, user.ID, turn.FirstMessage, turn.CurrentInput, f.fetchMemories)
	turn.InjectedCount = len(memories)

	if len(memories) == 0 {
		f.debugf("inlet: no memories selected for user %s", user.ID)
		return messages, turn, nil
	}

	injected := make([]Message, 0, len(messages)+1)
	injected = append(injected, Message{
		Role:    RoleSystem,
		Content: f.injectionContent(memories, user, turn.FirstMessage),
	})
	injected = append(injected, messages...)

	uv := f.userValves(user)
	if uv.ShowMemoryCount {
		kind := "relevantes"
		if turn.FirstMessage {
			kind = "recientes"
		}
		events.EmitStatus(ctx, f.emitter, fmt.Sprintf("📘 %d memorias %s cargadas", len(memories), kind), true)
	}

	f.debugf("inlet: injected %d memories for user %s (first=%v)", len(memories), user.ID, turn.FirstMessage)
	return injected, turn, nil
}

// ProcessOutlet runs the end-of-turn hook: it summarizes the completed
// exchange, filters duplicates, and persists the result.
//
// turn is the context returned by ProcessInlet for this same chat turn;
// nil is tolerated and only disables the inlet-derived fallbacks.
//
// Persistence is best-effort: a store failure is reported through the
// notification channel and the turn still completes normally, so the
// returned error is non-nil only for invalid invocations.
func (f *Filter) ProcessOutlet(ctx context.Context, messages []Message, user User, turn *TurnContext) error {
	if !f.valves.Enabled || !f.valves.AutoSaveResponses {
		return nil
	}
	if user.ID == "" {
		return NewPipelineError("ProcessOutlet", ErrNoUser)
	}

	uv := f.userValves(user)
	if uv.PrivateMode {
		f.debugf("outlet: user %s in private mode, skipping save", user.ID)
		return nil
	}

	content := strings.TrimSpace(LastAssistantMessage(messages))
	if content == "" {
		f.debugf("outlet: no assistant message to save")
		return nil
	}

	runes := []rune(content)
	if len(runes) < f.valves.MinResponseLength {
		f.debugf("outlet: reply too short (%d < %d), skipping", len(runes), f.valves.MinResponseLength)
		return nil
	}
	if len(runes) > f.valves.MaxResponseLength {
		content = string(runes[:f.valves.MaxResponseLength]) + "..."
	}

	userText := LastUserMessage(messages)
	if userText == "" && turn != nil {
		userText = turn.CurrentInput
	}

	exchange := summarizer.Turn{UserText: userText, AssistantText: content}
	summary, err := f.summarizer.Summarize(ctx, exchange, user.Name)
	if err != nil {
		// Extraction failure falls back to the full narrative rather
		// than losing the turn.
		log.Printf("automem: summarization failed, saving narrative form: %v", err)
		summary = f.heuristic.Narrative(exchange, user.Name)
	}
	if summary == summarizer.Skip {
		f.debugf("outlet: turn judged not worth remembering")
		return nil
	}

	if f.valves.FilterDuplicates && f.isDuplicate(ctx, user.ID, summary) {
		f.debugf("outlet: duplicate memory suppressed for user %s", user.ID)
		return nil
	}

	if uv.ShowStatus {
		events.EmitStatus(ctx, f.emitter, "Guardando memoria automáticamente", false)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	memory := storage.Memory{
		ID:        f.node.Generate().String(),
		UserID:    user.ID,
		Content:   summary,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := f.store.AddMemory(ctx, memory); err != nil {
		// Single best-effort write, no retry; the turn completes anyway.
		log.Printf("automem: failed to save memory for user %s: %v", user.ID, err)
		if uv.NotifyOnError {
			events.EmitStatus(ctx, f.emitter, fmt.Sprintf("❌ Error al guardar la memoria: %v", err), true)
		}
		return nil
	}

	if f.readCache != nil {
		f.readCache.Delete(user.ID)
	}

	if uv.ShowStatus || uv.ShowSaveConfirmation {
		events.EmitStatus(ctx, f.emitter, "Memoria guardada correctamente", true)
	}
	return nil
}

// fetchMemories reads a user's memories through the read cache. Only the
// pipeline's standard ordering is cached; other orderings go straight to
// the store.
func (f *Filter) fetchMemories(ctx context.Context, userID, orderBy string) ([]storage.Memory, error) {
	orderBy = storage.SanitizeOrderBy(orderBy)

	cacheable := f.readCache != nil && orderBy == storage.OrderCreatedAtDesc
	if cacheable {
		if memories, ok := f.readCache.Get(userID); ok {
			return memories, nil
		}
	}

	memories, err := f.store.GetMemories(ctx, userID, orderBy)
	if err != nil {
		return nil, err
	}

	if cacheable {
		f.readCache.Set(userID, memories)
	}
	return memories, nil
}

// isDuplicate checks the candidate against the user's stored memories.
// A fetch failure disables the check for this turn rather than blocking
// the save.
func (f *Filter) isDuplicate(ctx context.Context, userID, candidate string) bool {
	memories, err := f.fetchMemories(ctx, userID, storage.OrderCreatedAtDesc)
	if err != nil {
		log.Printf("automem: duplicate check skipped for user %s: %v", userID, err)
		return false
	}

	existing := make([]string, 0, len(memories))
	for _, m := range memories {
		if m.Content != "" {
			existing = append(existing, m.Content)
		}
	}
	return dedup.IsDuplicate(candidate, existing, f.valves.SimilarityThreshold)
}

// injectionContent builds the system-message body for the selected
// memories.
func (f *Filter) injectionContent(memories []string, user User, firstMessage bool) string {
	prefix := DefaultMemoryPrefix
	if uv := f.userValves(user); uv.CustomMemoryPrefix != "" {
		prefix = uv.CustomMemoryPrefix
	}

	header := relevantHeader
	if firstMessage {
		header = recentHeader
	}

	return prefix + "\n" + header + "\n" + strings.Join(memories, "\n")
}

// userValves resolves the effective per-user preferences.
func (f *Filter) userValves(user User) UserValves {
	if user.Valves != nil {
		return *user.Valves
	}
	return DefaultUserValves()
}

// debugf logs only when debug mode is enabled.
func (f *Filter) debugf(format string, args ...interface{}) {
	if f.valves.DebugMode {
		log.Printf("automem: "+format, args...)
	}
}
