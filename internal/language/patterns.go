// Package language maps language codes to character-class patterns and
// provides script-level text inspection for the translation pipeline.
// The pattern table is a process-wide constant; all functions are pure.
package language

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// patterns maps a language code to a regexp matching a single character
// of that language's script.
var patterns = map[string]*regexp.Regexp{
	"zh": regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3400}-\x{4dbf}]`),
	"en": regexp.MustCompile(`[A-Za-z]`),
	"ja": regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}]`),
	"ko": regexp.MustCompile(`[\x{ac00}-\x{d7af}]`),
	"ru": regexp.MustCompile(`[\x{0400}-\x{04ff}]`),
}

// names maps language codes to the English names used in prompts and
// terminology libraries.
var names = map[string]string{
	"zh": "Chinese",
	"en": "English",
	"ja": "Japanese",
	"ko": "Korean",
	"ru": "Russian",
}

// Name returns the English name for a language code, or the code itself
// when unknown.
func Name(code string) string {
	if name, ok := names[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// Pattern returns the character-class regexp for a language code.
func Pattern(code string) (*regexp.Regexp, bool) {
	re, ok := patterns[strings.ToLower(code)]
	return re, ok
}

// Supported returns the known language codes in sorted order.
func Supported() []string {
	codes := make([]string, 0, len(patterns))
	for code := range patterns {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Contains reports whether text holds at least one character of the
// language's script. Unknown codes always report false.
func Contains(code, text string) bool {
	re, ok := Pattern(code)
	if !ok {
		return false
	}
	return re.MatchString(text)
}

// Count returns the number of characters of the language's script in text.
func Count(code, text string) int {
	re, ok := Pattern(code)
	if !ok {
		return 0
	}
	return len(re.FindAllString(text, -1))
}

// Purity returns the fraction of letter characters in text that belong to
// the language's script, in [0,1]. Digits, punctuation and whitespace are
// ignored so "ISO 9001认证" still counts as mostly Chinese.
func Purity(code, text string) float64 {
	re, ok := Pattern(code)
	if !ok {
		return 0
	}

	letters := 0
	matched := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if re.MatchString(string(r)) {
			matched++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(matched) / float64(letters)
}

// Strip removes every character of the language's script from text.
// Unknown codes return text unchanged.
func Strip(code, text string) string {
	re, ok := Pattern(code)
	if !ok {
		return text
	}
	return re.ReplaceAllString(text, "")
}

// IsCJK reports whether the language is written without word spacing.
// Term matching uses this to decide between \b-style boundaries and
// neighbouring-rune checks.
func IsCJK(code string) bool {
	switch strings.ToLower(code) {
	case "zh", "ja", "ko":
		return true
	}
	return false
}

// Words splits text into maximal runs of letters and digits. For CJK text
// a contiguous ideograph run counts as one word.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
