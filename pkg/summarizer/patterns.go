// Package summarizer compresses completed conversation turns into compact
// memory records, or decides they are not worth remembering at all.
package summarizer

import (
	"fmt"
	"regexp"
)

// Category tags content detected by the importance patterns.
type Category string

const (
	// CategoryPreference marks likes, dislikes, and standing choices.
	CategoryPreference Category = "preference"

	// CategoryFact marks personal facts (name, work, dates, contact).
	CategoryFact Category = "fact"

	// CategoryInstruction marks standing instructions to the assistant.
	CategoryInstruction Category = "instruction"

	// CategoryTechnical marks technical subject matter.
	CategoryTechnical Category = "technical"
)

// verbPriority orders categories for narrative verb selection. Earlier
// entries win when a turn matches several categories.
var verbPriority = []Category{
	CategoryInstruction,
	CategoryPreference,
	CategoryFact,
	CategoryTechnical,
}

// PatternTable is a data-driven rule set: language code to category to
// regex patterns. Languages and patterns can be extended without touching
// the summarization algorithm.
type PatternTable struct {
	// Importance maps language to category to regex source strings.
	Importance map[string]map[Category][]string

	// Casual maps language to regex source strings matching greetings,
	// thanks, and bare acknowledgements.
	Casual map[string][]string
}

// DefaultPatterns returns the built-in rule set covering Spanish, English,
// and Chinese.
//
// English patterns use ASCII word boundaries; Spanish and Chinese patterns
// avoid them because Go's \b is ASCII-only and misfires next to accented
// and CJK characters.
func DefaultPatterns() *PatternTable {
	return &PatternTable{
		Importance: map[string]map[Category][]string{
			"en": {
				CategoryPreference: {
					`\b(prefer|like|love|hate|dislike|want|need|choose|decide|always|never|favorite)\b`,
				},
				CategoryFact: {
					`\b(my name is|i am|i work|i live|i have|i was born|birthday|my email|my phone)\b`,
				},
				CategoryInstruction: {
					`\b(remember|don'?t forget|from now on|make sure|you should|always use|never use|please use)\b`,
				},
				CategoryTechnical: {
					`\b(code|function|server|database|deploy|bug|error|api|config|install|version|compile)\b`,
				},
			},
			"es": {
				CategoryPreference: {
					`(prefiero|me gusta|me encanta|odio|no me gusta|quiero|necesito|elijo|siempre|nunca|favorit)`,
				},
				CategoryFact: {
					`(me llamo|soy |trabajo|vivo en|tengo |nací|cumpleaños|mi correo|mi teléfono)`,
				},
				CategoryInstruction: {
					`(recuerda|no olvides|a partir de ahora|asegúrate|debes |tienes que|usa siempre)`,
				},
				CategoryTechnical: {
					`(código|función|servidor|base de datos|desplegar|error|configuración|instalar|versión|compilar)`,
				},
			},
			"zh": {
				CategoryPreference: {
					`(喜欢|偏好|讨厌|想要|需要|选择|决定|总是|从不|最爱)`,
				},
				CategoryFact: {
					`(我叫|我是|我在.{0,6}工作|我住在|我有|生日|我的邮箱|我的电话)`,
				},
				CategoryInstruction: {
					`(记住|别忘了|从现在起|务必|请用|一定要)`,
				},
				CategoryTechnical: {
					`(代码|函数|服务器|数据库|部署|错误|配置|安装|版本|编译)`,
				},
			},
		},
		Casual: map[string][]string{
			"en": {
				`^\s*(hi|hello|hey|thanks|thank you|ok|okay|good morning|good night|bye|goodbye|lol|haha)\b`,
			},
			"es": {
				`^\s*(hola|buenas|buenos días|buenas tardes|buenas noches|gracias|vale|de acuerdo|adiós|jaja)`,
			},
			"zh": {
				`^\s*(你好|您好|谢谢|早上好|晚上好|晚安|再见|哈哈)`,
			},
		},
	}
}

// compiledPatterns holds the compiled rule set, merged across languages.
type compiledPatterns struct {
	importance map[Category][]*regexp.Regexp
	casual     []*regexp.Regexp
}

// compile builds the compiled form of the table. Returns an error if any
// pattern fails to compile, naming the offending language and pattern.
func (t *PatternTable) compile() (*compiledPatterns, error) {
	compiled := &compiledPatterns{
		importance: make(map[Category][]*regexp.Regexp),
	}

	for lang, categories := range t.Importance {
		for category, patterns := range categories {
			for _, pattern := range patterns {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, fmt.Errorf("pattern table: %s/%s: %q: %w", lang, category, pattern, err)
				}
				compiled.importance[category] = append(compiled.importance[category], re)
			}
		}
	}

	for lang, patterns := range t.Casual {
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("pattern table: %s/casual: %q: %w", lang, pattern, err)
			}
			compiled.casual = append(compiled.casual, re)
		}
	}

	return compiled, nil
}

// matchCategories returns the set of categories whose patterns match the
// lowercased text.
func (c *compiledPatterns) matchCategories(text string) map[Category]bool {
	matched := make(map[Category]bool)
	for category, patterns := range c.importance {
		for _, re := range patterns {
			if re.MatchString(text) {
				matched[category] = true
				break
			}
		}
	}
	return matched
}

// matchCasual reports whether the text matches any casual pattern.
func (c *compiledPatterns) matchCasual(text string) bool {
	for _, re := range c.casual {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
