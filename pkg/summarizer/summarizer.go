package summarizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Skip is the sentinel returned when a turn is not worth remembering.
const Skip = ""

// Turn is a completed user-message/assistant-reply pair. It is never
// persisted itself; only its derived summary is.
type Turn struct {
	// UserText is the user's message for the turn.
	UserText string

	// AssistantText is the assistant's reply.
	AssistantText string
}

// Summarizer produces a compact memory record from a conversation turn.
//
// An empty result with a nil error is the explicit skip sentinel: the turn
// should not be persisted at all. Callers fall back to the plain narrative
// form when a Summarizer returns an error.
type Summarizer interface {
	Summarize(ctx context.Context, turn Turn, userName string) (string, error)
}

// Length budget bounds, in runes.
const (
	totalBudgetMin = 300
	totalBudgetMax = 2000

	userBudgetCap      = 400
	assistantBudgetCap = 1500
	assistantBudgetMin = 300

	// templateOverhead is reserved for the narrative template text around
	// the two excerpts.
	templateOverhead = 120

	// casualUserLimit is the user-message length under which a casual
	// turn is skipped. Only the user message is measured; a short
	// greeting followed by a long substantive answer is still skipped.
	casualUserLimit = 50

	// minExcerptLen is the minimum informative assistant excerpt; below
	// it the turn is skipped.
	minExcerptLen = 30

	// minImportantSentenceLen filters fragments out of sentence selection.
	minImportantSentenceLen = 20

	// maxImportantSentences caps how many sentences the assistant excerpt
	// joins.
	maxImportantSentences = 3
)

// Templates defines the narrative output forms. The defaults keep the
// bilingual flavor of the shipped deployment; swap them wholesale for
// other locales.
type Templates struct {
	// Narrative formats the unsummarized form. Verbs: user name, user
	// text, assistant text.
	Narrative string

	// Tagged formats the summarized form. Verbs: tag list, user name,
	// action verb, user key phrase, assistant summary.
	Tagged string

	// ActionVerbs maps a detected category to its narrative verb.
	ActionVerbs map[Category]string

	// DefaultVerb is used when no category matched.
	DefaultVerb string
}

// DefaultTemplates returns the shipped narrative templates.
func DefaultTemplates() Templates {
	return Templates{
		Narrative: "[%s] me dijo: %s\nYo respondí: %s",
		Tagged:    "[%s] %s %s %s. Le respondí: %s",
		ActionVerbs: map[Category]string{
			CategoryInstruction: "me pidió",
			CategoryPreference:  "me dijo que prefiere",
			CategoryFact:        "me contó",
			CategoryTechnical:   "consultó sobre",
		},
		DefaultVerb: "mencionó",
	}
}

// Config controls the heuristic summarizer.
type Config struct {
	// EnableSmartSummarization enables heuristic extraction. When false
	// every turn produces the plain narrative form.
	EnableSmartSummarization bool

	// MinContentForSummary is the narrative length (runes) below which
	// extraction is not attempted.
	MinContentForSummary int

	// MaxResponseLength drives the total length budget; it is clamped to
	// [300, 2000].
	MaxResponseLength int

	// Templates are the narrative output forms. Zero value means
	// DefaultTemplates.
	Templates Templates

	// Patterns is the rule set. Nil means DefaultPatterns.
	Patterns *PatternTable
}

// Heuristic is the extractive, rule-based summarizer. It makes no
// external calls and is safe for concurrent use.
type Heuristic struct {
	cfg      Config
	patterns *compiledPatterns
}

// NewHeuristic creates the heuristic summarizer.
//
// Returns an error only when a configured pattern fails to compile.
func NewHeuristic(cfg Config) (*Heuristic, error) {
	if cfg.Patterns == nil {
		cfg.Patterns = DefaultPatterns()
	}
	if cfg.Templates.Narrative == "" {
		cfg.Templates = DefaultTemplates()
	}

	compiled, err := cfg.Patterns.compile()
	if err != nil {
		return nil, err
	}

	return &Heuristic{cfg: cfg, patterns: compiled}, nil
}

// Summarize compresses a turn into a memory record.
//
// Returns the plain narrative form when smart summarization is disabled or
// the turn is too short to bother, the Skip sentinel when the turn is a
// short casual exchange or yields no informative excerpt, and otherwise
// the tagged extractive summary bounded by the length budget.
func (h *Heuristic) Summarize(ctx context.Context, turn Turn, userName string) (string, error) {
	_ = ctx // no blocking work; kept for interface symmetry

	narrative := h.Narrative(turn, userName)

	if !h.cfg.EnableSmartSummarization {
		return narrative, nil
	}
	if len([]rune(narrative)) < h.cfg.MinContentForSummary {
		return narrative, nil
	}

	combined := strings.ToLower(turn.UserText + " " + turn.AssistantText)
	tags := h.patterns.matchCategories(combined)

	if len(tags) == 0 {
		if h.patterns.matchCasual(combined) && len([]rune(turn.UserText)) < casualUserLimit {
			return Skip, nil
		}
	}

	totalBudget := clamp(h.cfg.MaxResponseLength, totalBudgetMin, totalBudgetMax)
	userBudget := userBudgetCap
	if totalBudget/3 < userBudget {
		userBudget = totalBudget / 3
	}
	assistantBudget := totalBudget - templateOverhead - userBudget
	if assistantBudget > assistantBudgetCap {
		assistantBudget = assistantBudgetCap
	}
	if assistantBudget < assistantBudgetMin {
		assistantBudget = assistantBudgetMin
	}

	userKey := truncate(userKeyPhrase(turn.UserText), userBudget)

	excerpt := truncate(h.assistantExcerpt(turn.AssistantText, assistantBudget), assistantBudget)
	if len([]rune(excerpt)) < minExcerptLen {
		return Skip, nil
	}

	summary := fmt.Sprintf(h.cfg.Templates.Tagged,
		tagLabel(tags), userName, h.actionVerb(tags), userKey, excerpt)

	return truncate(summary, totalBudget), nil
}

// Narrative renders the unsummarized narrative form of a turn. It is the
// fallback when extraction fails or is disabled.
func (h *Heuristic) Narrative(turn Turn, userName string) string {
	return fmt.Sprintf(h.cfg.Templates.Narrative, userName, turn.UserText, turn.AssistantText)
}

// actionVerb picks the narrative verb for the detected tag set, in
// priority order.
func (h *Heuristic) actionVerb(tags map[Category]bool) string {
	for _, category := range verbPriority {
		if tags[category] {
			if verb, ok := h.cfg.Templates.ActionVerbs[category]; ok {
				return verb
			}
		}
	}
	return h.cfg.Templates.DefaultVerb
}

// assistantExcerpt extracts the informative core of the assistant's reply:
// up to three important sentences, else the first substantial sentence,
// else the leading characters.
func (h *Heuristic) assistantExcerpt(text string, budget int) string {
	sentences := splitSentences(text)

	var important []string
	for _, sentence := range sentences {
		if len([]rune(sentence)) < minImportantSentenceLen {
			continue
		}
		if len(h.patterns.matchCategories(strings.ToLower(sentence))) == 0 {
			continue
		}
		important = append(important, sentence)
		if len(important) == maxImportantSentences {
			break
		}
	}
	if len(important) > 0 {
		return strings.Join(important, ". ")
	}

	for _, sentence := range sentences {
		if len([]rune(sentence)) > 30 {
			return sentence
		}
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) > budget {
		runes = runes[:budget]
	}
	return string(runes)
}

// tagLabel renders the detected tag set in priority order, or "general"
// when nothing matched.
func tagLabel(tags map[Category]bool) string {
	var names []string
	for _, category := range verbPriority {
		if tags[category] {
			names = append(names, string(category))
		}
	}
	if len(names) == 0 {
		return "general"
	}
	return strings.Join(names, ", ")
}

// userKeyPhrase takes the user's text up to the first period, or the whole
// message when there is none.
func userKeyPhrase(text string) string {
	trimmed := strings.TrimSpace(text)
	if idx := strings.Index(trimmed, "."); idx >= 0 {
		return strings.TrimSpace(trimmed[:idx])
	}
	return trimmed
}

var sentenceSplit = regexp.MustCompile(`[.!?。！？]+\s*`)

// splitSentences breaks text into trimmed, non-empty sentences.
func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// truncate cuts s to at most budget runes, ellipsized when cut.
func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget <= 3 {
		return string(runes[:budget])
	}
	return string(runes[:budget-3]) + "..."
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
