package terminology

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Direction selects what a placeholder is restored to.
type Direction int

const (
	// ToSource restores placeholders to the matched source-side term.
	ToSource Direction = iota
	// ToTarget restores placeholders to the approved translation.
	ToTarget
)

// Match is one term found in a text unit.
type Match struct {
	Source string // the term as it appears in the text
	Target string // what it must become after translation
}

// Mapping is the bijective placeholder-to-term mapping for exactly one
// text unit's translation attempt. It must never be reused or merged
// across units.
type Mapping struct {
	pairs []pair
}

type pair struct {
	token  string
	source string
	target string
}

// Len returns the number of placeholders in the mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Extract finds the subset of table source terms present in text,
// longest-term-first. An empty table yields an empty result, not an error.
func Extract(text string, table Table) []Match {
	var matches []Match
	for _, source := range table.SortedSources() {
		if containsTerm(text, source) {
			matches = append(matches, Match{Source: source, Target: table[source]})
		}
	}
	return matches
}

// ExtractReverse is the symmetric operation for the opposite translation
// direction. The reversed table is precomputed once per document with
// Table.Reverse and passed in explicitly.
func ExtractReverse(text string, reversed Table) []Match {
	return Extract(text, reversed)
}

// Substitute replaces each matched term with a fresh indexed placeholder
// token and returns the rewritten text together with the unit-local
// mapping. Replacement never touches the inside of an already inserted
// token: the text is kept as a list of segments and token segments are
// locked as they are produced.
func Substitute(text string, matches []Match) (string, *Mapping) {
	m := &Mapping{}
	segments := []segment{{text: text}}

	for _, match := range matches {
		token := fmt.Sprintf("[[T%d]]", m.Len())
		replaced := false
		var next []segment
		for _, seg := range segments {
			if seg.locked {
				next = append(next, seg)
				continue
			}
			parts, n := splitOnTerm(seg.text, match.Source, token)
			replaced = replaced || n > 0
			next = append(next, parts...)
		}
		segments = next
		if replaced {
			m.pairs = append(m.pairs, pair{token: token, source: match.Source, target: match.Target})
		}
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.text)
	}
	return b.String(), m
}

type segment struct {
	text   string
	locked bool
}

// splitOnTerm splits text around boundary-safe occurrences of term,
// inserting locked token segments, and reports how many were replaced.
func splitOnTerm(text, term, token string) ([]segment, int) {
	var out []segment
	count := 0
	rest := text
	for {
		idx := indexOfTerm(rest, term)
		if idx < 0 {
			break
		}
		if idx > 0 {
			out = append(out, segment{text: rest[:idx]})
		}
		out = append(out, segment{text: token, locked: true})
		rest = rest[idx+len(term):]
		count++
	}
	if rest != "" || count == 0 {
		out = append(out, segment{text: rest})
	}
	return out, count
}

func containsTerm(text, term string) bool {
	return indexOfTerm(text, term) >= 0
}

// indexOfTerm finds the first boundary-safe occurrence of term in text.
// The boundary rule is shared by CJK and Latin terms: the runes adjacent
// to the match must not be ASCII alphanumerics, which behaves like \b for
// Latin terms and leaves ideograph neighbours alone.
func indexOfTerm(text, term string) int {
	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(term)
		if safeBoundary(text, start, end) {
			return start
		}
		offset = start + 1
	}
}

func safeBoundary(text string, start, end int) bool {
	if start > 0 {
		before, _ := lastRune(text[:start])
		if isASCIIWordRune(before) {
			return false
		}
	}
	if end < len(text) {
		after, _ := firstRune(text[end:])
		if isASCIIWordRune(after) {
			return false
		}
	}
	return true
}

func isASCIIWordRune(r rune) bool {
	return r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func lastRune(s string) (rune, bool) {
	var last rune
	found := false
	for _, r := range s {
		last = r
		found = true
	}
	return last, found
}

// placeholderShapeRe matches placeholder-shaped tokens permissively:
// single or double brackets, full-width variants, stray spaces and case
// changes all count, because backends occasionally paraphrase the exact
// token.
var placeholderShapeRe = regexp.MustCompile(`[\[【]{1,2}\s*[TtＴ]\s*([0-9０-９]+)\s*[\]】]{1,2}`)

// Restore replaces every placeholder with its source or target term. A
// strict pass replaces exact tokens; a second permissive pass catches
// tokens the backend reshaped. Tokens that still cannot be resolved are
// logged as a data-quality warning and returned to the caller; they are
// not a hard failure.
func (m *Mapping) Restore(text string, dir Direction, logger *zap.Logger) (string, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m.Len() == 0 {
		return text, nil
	}

	byIndex := make(map[int]pair, m.Len())
	restored := make(map[int]bool, m.Len())
	for i, p := range m.pairs {
		byIndex[i] = p
		if strings.Contains(text, p.token) {
			text = strings.ReplaceAll(text, p.token, m.replacement(p, dir))
			restored[i] = true
		}
	}

	// Permissive second pass for reshaped tokens.
	text = placeholderShapeRe.ReplaceAllStringFunc(text, func(shape string) string {
		sub := placeholderShapeRe.FindStringSubmatch(shape)
		idx, err := strconv.Atoi(normalizeDigits(sub[1]))
		if err != nil {
			return shape
		}
		p, ok := byIndex[idx]
		if !ok {
			return shape
		}
		restored[idx] = true
		return m.replacement(p, dir)
	})

	// Tokens the backend dropped entirely cannot be restored; warn so the
	// caller can flag the unit for review.
	var unresolved []string
	for i, p := range m.pairs {
		if !restored[i] {
			unresolved = append(unresolved, p.token)
		}
	}
	if len(unresolved) > 0 {
		logger.Warn("Placeholder tokens missing from backend output",
			zap.Strings("tokens", unresolved))
	}
	return text, unresolved
}

func (m *Mapping) replacement(p pair, dir Direction) string {
	if dir == ToSource {
		return p.source
	}
	return p.target
}

// normalizeDigits folds full-width digits onto ASCII.
func normalizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '０' && r <= '９' {
			r = '0' + (r - '０')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DirectReplace substitutes matched source terms with their targets in
// place, with no placeholder round trip. Used when the caller judges the
// backend reliably preserves untranslated tokens.
func DirectReplace(text string, table Table) string {
	for _, source := range table.SortedSources() {
		token := table[source]
		var b strings.Builder
		rest := text
		for {
			idx := indexOfTerm(rest, source)
			if idx < 0 {
				b.WriteString(rest)
				break
			}
			b.WriteString(rest[:idx])
			b.WriteString(token)
			rest = rest[idx+len(source):]
		}
		text = b.String()
	}
	return text
}
