package backend

import (
	"regexp"
	"strings"
)

// echoPatterns match introductory phrases LLMs sometimes prepend even
// when told not to. Anchored to the start of the output.
var echoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? translation\s*[:：]`),
	regexp.MustCompile(`(?i)^(?:the )?translat(?:ion|ed text)\s*[:：]`),
	regexp.MustCompile(`^(?:以下是翻译|翻译结果|译文|翻译)\s*[:：]`),
}

// CleanResponse strips common LLM artifacts from a raw backend result:
// instruction echoes at the start and a matching pair of wrapping quotes.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)

	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}

	return strings.TrimSpace(unwrapQuotes(text))
}

// unwrapQuotes removes one matching pair of outer quotes when the whole
// text is wrapped in them.
func unwrapQuotes(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') ||
		(first == '「' && last == '」') {
		return string(runes[1 : n-1])
	}
	return text
}
