package classify

import (
	"regexp"
	"strings"
)

var (
	imageURLPattern     = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|bmp|webp|svg)(\?.*)?$`)
	imageDataURIPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp|svg\+xml);base64,`)
)

// IsImage reports whether s is an image URL or a base64 image data URI.
func IsImage(s string) bool {
	return imageURLPattern.MatchString(s) || imageDataURIPattern.MatchString(s)
}

// mathPatterns are LaTeX markers; any single match marks a string as math.
var mathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\$\$.+\$\$`),
	regexp.MustCompile(`\$.+\$`),
	regexp.MustCompile(`\\frac\{`),
	regexp.MustCompile(`\\sqrt\{`),
	regexp.MustCompile(`\\sum_`),
	regexp.MustCompile(`\\int_`),
	regexp.MustCompile(`\\lim_`),
	regexp.MustCompile(`\\begin\{.*\}`),
	regexp.MustCompile(`\\(alpha|beta|gamma|delta|epsilon|theta|lambda|mu|pi|sigma|phi|omega)`),
	regexp.MustCompile(`\^\{?[0-9]+\}?`),
	regexp.MustCompile(`_\{\{?[0-9]+\}?`),
}

// IsMath reports whether s carries LaTeX-like markup.
func IsMath(s string) bool {
	for _, p := range mathPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

var fencedBlockPattern = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]+?)```")

// codeSignals are independent hints that unfenced text is source code.
// At least minCodeSignals must be present.
var codeSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(import|from|export|const|let|var|function|class|def|public|private)\s`),
	regexp.MustCompile(`[;{}()\[\]]`),
	regexp.MustCompile(`(?m)^\s*(if|for|while|switch|try|catch)\s*\(`),
	regexp.MustCompile(`=>|->|\|\|`),
	regexp.MustCompile(`(==|!=|<=|>=|&&|\|\|)`),
}

const (
	minCodeLines   = 4
	minCodeSignals = 2

	// defaultFenceLanguage is reported for fences without a language tag.
	defaultFenceLanguage = "text"
)

// CodeInfo is the payload of a code node.
type CodeInfo struct {
	Language string
	Content  string
	// Fenced is true when the content came from a ``` block.
	Fenced bool
}

// DetectCodeString reports whether s is code, returning the extracted
// language and content.
func DetectCodeString(s string) (CodeInfo, bool) {
	if m := fencedBlockPattern.FindStringSubmatch(s); m != nil {
		lang := m[1]
		if lang == "" {
			lang = defaultFenceLanguage
		}
		return CodeInfo{Language: lang, Content: m[2], Fenced: true}, true
	}
	if strings.Count(s, "\n")+1 < minCodeLines {
		return CodeInfo{}, false
	}
	signals := 0
	for _, p := range codeSignals {
		if p.MatchString(s) {
			signals++
		}
	}
	if signals < minCodeSignals {
		return CodeInfo{}, false
	}
	return CodeInfo{Content: s}, true
}

var reasoningKeywords = []string{
	"reasoning", "reason", "thought", "thinking", "analysis",
	"rationale", "explanation", "chain_of_thought", "cot",
}

// IsReasoningKey reports whether a key name marks its string value as
// model reasoning.
func IsReasoningKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range reasoningKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
