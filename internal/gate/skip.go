package gate

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Decision is the outcome of a skip check: whether the unit bypasses
// translation and a human-readable reason.
type Decision struct {
	Skip   bool
	Reason string
}

// SkipPattern is one rule classifying content that never needs translation.
type SkipPattern struct {
	Name string
	re   *regexp.Regexp
}

// defaultSkipPatterns is the ordered trivial-content table. First match
// wins; names double as skip reasons and are language-independent rules.
var defaultSkipPatterns = []SkipPattern{
	{"纯数字", regexp.MustCompile(`^[0-9]+([.,][0-9]+)*$`)},
	{"百分比", regexp.MustCompile(`^[0-9]+([.,][0-9]+)?%$`)},
	{"网址", regexp.MustCompile(`^(https?://|www\.)\S+$`)},
	{"电子邮箱", regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)},
	{"日期", regexp.MustCompile(`^([0-9]{4}[-/.年][0-9]{1,2}[-/.月][0-9]{1,2}日?|[0-9]{1,2}[-/.][0-9]{1,2}[-/.][0-9]{4})$`)},
	{"时间", regexp.MustCompile(`^[0-9]{1,2}:[0-9]{2}(:[0-9]{2})?$`)},
	{"编号代码", regexp.MustCompile(`^[A-Za-z]*[-_/#]?[A-Za-z]*[0-9][A-Za-z0-9._/-]*$`)},
	{"数字与符号", regexp.MustCompile(`^[0-9\s.,;:%×+*/=()（）\-]+$`)},
}

// Classifier applies the trivial-content rules in order.
type Classifier struct {
	patterns []SkipPattern
	logger   *zap.Logger
}

// NewClassifier creates a Classifier with the default pattern table.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		patterns: append([]SkipPattern(nil), defaultSkipPatterns...),
		logger:   logger,
	}
}

// AddPattern appends a custom rule. A malformed expression is logged and
// dropped so that classification keeps working without it.
func (c *Classifier) AddPattern(name, expr string) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		c.logger.Warn("Ignoring malformed skip pattern",
			zap.String("name", name),
			zap.String("expr", expr),
			zap.Error(err))
		return err
	}
	c.patterns = append(c.patterns, SkipPattern{Name: name, re: re})
	return nil
}

// Classify decides whether text is trivial content. Rules, in order:
// empty/whitespace, the pattern table, and a single-character cutoff.
// Text that survives all three still needs the bilingual check.
func (c *Classifier) Classify(text string) Decision {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Decision{Skip: true, Reason: "空白内容"}
	}

	for _, p := range c.patterns {
		if p.re.MatchString(trimmed) {
			return Decision{Skip: true, Reason: p.Name}
		}
	}

	if len([]rune(trimmed)) <= 1 {
		return Decision{Skip: true, Reason: "内容过短"}
	}

	return Decision{Skip: false, Reason: ""}
}
