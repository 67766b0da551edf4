package gate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/polyglotkit/doctrans/internal/language"
)

// Config holds the tuned thresholds of the bilingual-pair detector. The
// defaults were calibrated on technical document corpora; treat them as a
// starting point, not derived values.
type Config struct {
	// Similarity thresholds by average line length.
	ShortLineThreshold  float64 // avg length <= 10 chars
	MediumLineThreshold float64 // avg length <= 30 chars
	LongLineThreshold   float64 // longer lines

	// Validation cutoffs for candidate pairs.
	MinLengthRatio      float64
	MinPurity           float64
	HighSimilarity      float64 // accept unconditionally above this
	MinStructural       float64
	KeywordBonusWeight  float64
	MinConsecutivePairs int

	// Alternating-pattern detection.
	MinAlternatingLines int
	MinAlternations     int
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		ShortLineThreshold:  0.2,
		MediumLineThreshold: 0.25,
		LongLineThreshold:   0.3,
		MinLengthRatio:      0.2,
		MinPurity:           0.4,
		HighSimilarity:      0.6,
		MinStructural:       0.2,
		KeywordBonusWeight:  0.4,
		MinConsecutivePairs: 2,
		MinAlternatingLines: 4,
		MinAlternations:     2,
	}
}

// markerPatterns recognise explicit dual-language formatting. Any match
// means the unit already carries its own translation.
var markerPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"原文译文标记", regexp.MustCompile(`(?s)【原文】.*【译文】`)},
	{"原文译文标记", regexp.MustCompile(`(?s)\[原文\].*\[译文\]`)},
	{"原文译文标记", regexp.MustCompile(`(?s)原文[:：].*译文[:：]`)},
	{"中文括注英文", regexp.MustCompile(`[\x{4e00}-\x{9fff}]+\s*[（(][A-Za-z][A-Za-z0-9\s,.'-]{2,}[)）]`)},
	{"英文括注中文", regexp.MustCompile(`[A-Za-z][A-Za-z0-9\s,.'-]+\s*[（(][\x{4e00}-\x{9fff}]+[)）]`)},
}

// keywordTable maps common Chinese technical terms to their English
// counterparts. Co-occurrence across an adjacent line pair is strong
// evidence the pair is a translation of itself.
var keywordTable = map[string]string{
	"产品": "product",
	"名称": "name",
	"检测": "detection",
	"系统": "system",
	"设备": "equipment",
	"技术": "technology",
	"报告": "report",
	"测试": "test",
	"质量": "quality",
	"标准": "standard",
	"方法": "method",
	"材料": "material",
	"温度": "temperature",
	"压力": "pressure",
	"安全": "safety",
	"管理": "management",
	"操作": "operation",
	"数据": "data",
	"分析": "analysis",
	"设计": "design",
	"说明": "instruction",
	"要求": "requirement",
	"项目": "project",
	"结果": "result",
	"参数": "parameter",
}

// Detector recognises text units that already contain a source/target
// translation pair and therefore must not be translated again. It trades
// recall for precision: every candidate passes a multi-stage validation
// before the unit is skipped.
type Detector struct {
	cfg    Config
	logger *zap.Logger
}

// NewDetector creates a Detector with the given thresholds.
func NewDetector(cfg Config, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{cfg: cfg, logger: logger}
}

// DetectAlreadyTranslated checks text for explicit bilingual markers,
// adjacent translated line pairs, and alternating language structure.
func (d *Detector) DetectAlreadyTranslated(text, sourceLang, targetLang string) Decision {
	for _, m := range markerPatterns {
		if m.re.MatchString(text) {
			return Decision{Skip: true, Reason: m.name}
		}
	}

	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return Decision{Skip: false, Reason: ""}
	}

	pairs := d.countValidatedPairs(lines, sourceLang, targetLang)
	if pairs > 0 {
		// A single validated pair only counts when it covers the whole
		// unit; anything longer needs at least MinConsecutivePairs.
		wholeUnit := pairs*2 == len(lines)
		if wholeUnit || pairs >= d.cfg.MinConsecutivePairs {
			d.logger.Debug("Bilingual pairs detected",
				zap.Int("pairs", pairs),
				zap.Int("lines", len(lines)))
			return Decision{Skip: true, Reason: fmt.Sprintf("检测到%d组连续双语对", pairs)}
		}
	}

	if d.hasAlternatingPattern(lines, sourceLang, targetLang) {
		return Decision{Skip: true, Reason: "检测到交替双语结构"}
	}

	return Decision{Skip: false, Reason: ""}
}

// countValidatedPairs walks adjacent lines and counts consecutive
// validated translation pairs. Once a pair validates, both its lines are
// consumed so a line never belongs to two pairs.
func (d *Detector) countValidatedPairs(lines []string, sourceLang, targetLang string) int {
	count := 0
	for i := 0; i+1 < len(lines); {
		if d.validatePair(lines[i], lines[i+1], sourceLang, targetLang) {
			count++
			i += 2
			continue
		}
		if count > 0 {
			// Pairs must be consecutive; a gap resets nothing but
			// stops extending the run.
			break
		}
		i++
	}
	return count
}

// validatePair runs the full candidate and validation chain on one
// adjacent line pair.
func (d *Detector) validatePair(l1, l2, sourceLang, targetLang string) bool {
	srcLine, tgtLine, ok := orientPair(l1, l2, sourceLang, targetLang)
	if !ok {
		return false
	}

	// The target line must carry at least 2 distinct words of >= 2
	// characters; a single stray word is not a translation.
	if distinctLongWords(tgtLine) < 2 {
		return false
	}

	score := d.similarity(srcLine, tgtLine, sourceLang, targetLang)
	if score <= d.lengthThreshold(l1, l2) {
		return false
	}

	// Validation stage.
	r1, r2 := len([]rune(l1)), len([]rune(l2))
	if lengthRatio(r1, r2) < d.cfg.MinLengthRatio {
		return false
	}
	if complexity(r1, r2) < 1 {
		return false
	}
	if language.Purity(sourceLang, srcLine) < d.cfg.MinPurity ||
		language.Purity(targetLang, tgtLine) < d.cfg.MinPurity {
		return false
	}
	if score > d.cfg.HighSimilarity {
		return true
	}
	return d.structural(l1, l2) >= d.cfg.MinStructural
}

// similarity scores a candidate pair in [0,1] from length ratio, digit
// sequences, shared punctuation, and (for zh<->en) keyword co-occurrence.
func (d *Detector) similarity(srcLine, tgtLine, sourceLang, targetLang string) float64 {
	score := 0.0

	r1, r2 := len([]rune(srcLine)), len([]rune(tgtLine))
	if lengthRatio(r1, r2) > 0.5 {
		score += 0.2
	}

	d1, d2 := digitSequences(srcLine), digitSequences(tgtLine)
	if len(d1) > 0 && equalSequences(d1, d2) {
		score += 0.3
	}

	score += 0.2 * punctuationJaccard(srcLine, tgtLine)

	if isZhEnPair(sourceLang, targetLang) {
		score += d.cfg.KeywordBonusWeight * keywordFraction(srcLine, tgtLine, sourceLang)
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// lengthThreshold returns the similarity bar for a pair: shorter lines get
// a lower bar because spurious similarity accumulates less.
func (d *Detector) lengthThreshold(l1, l2 string) float64 {
	avg := float64(len([]rune(l1))+len([]rune(l2))) / 2
	switch {
	case avg <= 10:
		return d.cfg.ShortLineThreshold
	case avg <= 30:
		return d.cfg.MediumLineThreshold
	default:
		return d.cfg.LongLineThreshold
	}
}

// structural measures punctuation-count and word-count agreement, each as
// min/max ratios, averaged.
func (d *Detector) structural(l1, l2 string) float64 {
	w1, w2 := len(language.Words(l1)), len(language.Words(l2))
	p1, p2 := punctuationCount(l1), punctuationCount(l2)

	wordRatio := 1.0
	if w1 != w2 {
		wordRatio = ratio(w1, w2)
	}
	punctRatio := 1.0
	if p1 != p2 {
		punctRatio = ratio(p1, p2)
	}
	return (wordRatio + punctRatio) / 2
}

// hasAlternatingPattern detects source/target/source/target structure over
// at least MinAlternatingLines lines with MinAlternations language flips.
func (d *Detector) hasAlternatingPattern(lines []string, sourceLang, targetLang string) bool {
	if len(lines) < d.cfg.MinAlternatingLines {
		return false
	}

	const (
		langNone = iota
		langSource
		langTarget
	)

	prev := langNone
	alternations := 0
	classified := 0
	for _, line := range lines {
		cur := langNone
		switch {
		case isPurely(line, sourceLang, targetLang):
			cur = langSource
		case isPurely(line, targetLang, sourceLang):
			cur = langTarget
		default:
			return false // a mixed line breaks the pattern
		}
		classified++
		if prev != langNone && cur != prev {
			alternations++
		}
		prev = cur
	}

	return classified >= d.cfg.MinAlternatingLines && alternations >= d.cfg.MinAlternations
}

// orientPair returns the pair as (sourceLine, targetLine) when exactly one
// line is purely source-language and the other purely target-language.
func orientPair(l1, l2, sourceLang, targetLang string) (string, string, bool) {
	switch {
	case isPurely(l1, sourceLang, targetLang) && isPurely(l2, targetLang, sourceLang):
		return l1, l2, true
	case isPurely(l1, targetLang, sourceLang) && isPurely(l2, sourceLang, targetLang):
		return l2, l1, true
	}
	return "", "", false
}

// isPurely reports whether line contains the wanted language and none of
// the other one.
func isPurely(line, want, other string) bool {
	return language.Contains(want, line) && !language.Contains(other, line)
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func distinctLongWords(line string) int {
	seen := map[string]struct{}{}
	for _, w := range language.Words(line) {
		if len([]rune(w)) >= 2 {
			seen[strings.ToLower(w)] = struct{}{}
		}
	}
	return len(seen)
}

// complexity guards against pairing two single characters.
func complexity(r1, r2 int) int {
	c := 0
	if r1 > 1 {
		c++
	}
	if r2 > 1 {
		c++
	}
	return c
}

func lengthRatio(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return ratio(a, b)
}

func ratio(a, b int) float64 {
	if a > b {
		a, b = b, a
	}
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

var digitRunRe = regexp.MustCompile(`[0-9]+`)

func digitSequences(line string) []string {
	return digitRunRe.FindAllString(line, -1)
}

func equalSequences(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func punctuationSet(line string) map[rune]struct{} {
	set := map[rune]struct{}{}
	for _, r := range line {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			set[normalizePunct(r)] = struct{}{}
		}
	}
	return set
}

func punctuationCount(line string) int {
	n := 0
	for _, r := range line {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			n++
		}
	}
	return n
}

// normalizePunct folds full-width punctuation onto its ASCII counterpart
// so 中文标点 and its translation share a punctuation set.
func normalizePunct(r rune) rune {
	switch r {
	case '，':
		return ','
	case '。':
		return '.'
	case '：':
		return ':'
	case '；':
		return ';'
	case '！':
		return '!'
	case '？':
		return '?'
	case '（':
		return '('
	case '）':
		return ')'
	case '、':
		return ','
	case '“', '”':
		return '"'
	}
	return r
}

func punctuationJaccard(l1, l2 string) float64 {
	s1, s2 := punctuationSet(l1), punctuationSet(l2)
	if len(s1) == 0 && len(s2) == 0 {
		return 0
	}
	inter := 0
	for r := range s1 {
		if _, ok := s2[r]; ok {
			inter++
		}
	}
	union := len(s1) + len(s2) - inter
	return float64(inter) / float64(union)
}

// keywordFraction returns matched/found over the keyword table: of the
// Chinese keywords present in the Chinese line, the fraction whose English
// counterpart appears in the English line.
func keywordFraction(srcLine, tgtLine, sourceLang string) float64 {
	zhLine, enLine := srcLine, tgtLine
	if strings.ToLower(sourceLang) != "zh" {
		zhLine, enLine = tgtLine, srcLine
	}

	enLower := strings.ToLower(enLine)
	found := 0
	matched := 0
	for zh, en := range keywordTable {
		if !strings.Contains(zhLine, zh) {
			continue
		}
		found++
		if strings.Contains(enLower, en) {
			matched++
		}
	}
	if found == 0 {
		return 0
	}
	return float64(matched) / float64(found)
}

func isZhEnPair(sourceLang, targetLang string) bool {
	s, t := strings.ToLower(sourceLang), strings.ToLower(targetLang)
	return (s == "zh" && t == "en") || (s == "en" && t == "zh")
}
