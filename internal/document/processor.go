package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/polyglotkit/doctrans/internal/backend"
	"github.com/polyglotkit/doctrans/internal/gate"
	"github.com/polyglotkit/doctrans/internal/orchestrator"
	"github.com/polyglotkit/doctrans/internal/terminology"
)

// Output formats.
const (
	FormatBilingual       = "bilingual"
	FormatTranslationOnly = "translation-only"
)

// Options configures one document run.
type Options struct {
	SourceLang string // e.g. "zh"
	TargetLang string // e.g. "en"

	UseTerminology  bool
	PreprocessTerms bool // replace terms directly instead of using placeholders
	SkipTranslated  bool // run bilingual-pair detection
	OutputFormat    string
	ExtraPrompt     string // optional instruction appended to every backend prompt
}

// DefaultOptions returns the document processor defaults.
func DefaultOptions() Options {
	return Options{
		SourceLang:     "zh",
		TargetLang:     "en",
		UseTerminology: true,
		SkipTranslated: true,
		OutputFormat:   FormatBilingual,
	}
}

// Issue flags one unit for post-hoc review. Issues are warnings, not
// failures: the document still completes.
type Issue struct {
	Unit   int    // zero-based unit index
	Text   string // the unit's original text
	Reason string
}

// Processor translates one plain-text document at a time, unit by unit.
// It is not safe for concurrent use; the orchestrator's error counters
// assume a single writer.
type Processor struct {
	opts   Options
	gate   *gate.Gate
	orch   *orchestrator.Orchestrator
	table  terminology.Table
	logger *zap.Logger

	issues []Issue
}

// NewProcessor creates a document processor. table may be nil when
// terminology is unused.
func NewProcessor(opts Options, table terminology.Table, orch *orchestrator.Orchestrator, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = FormatBilingual
	}
	return &Processor{
		opts:   opts,
		gate:   gate.New(gate.DefaultConfig(), opts.SkipTranslated, logger),
		orch:   orch,
		table:  table,
		logger: logger,
	}
}

// SetProgressCallback installs the caller's progress callback.
func (p *Processor) SetProgressCallback(fn orchestrator.ProgressFunc) {
	p.orch.SetProgress(fn)
}

// Issues returns the validation issues recorded during the last run.
func (p *Processor) Issues() []Issue {
	return p.issues
}

// Gate exposes the skip gate, e.g. for dry runs and custom skip patterns.
func (p *Processor) Gate() *gate.Gate {
	return p.gate
}

// Process translates filePath and writes the result next to it, named
// <base>.<targetLang>.txt. It returns the output path. Cancellation is
// checked between units; a cancelled run leaves no output file.
func (p *Processor) Process(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	units := SplitUnits(string(data))
	p.issues = nil

	out := make([]string, 0, len(units))
	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("document processing cancelled at unit %d/%d: %w", i+1, len(units), err)
		}

		issuesBefore := len(p.issues)
		translated, err := p.translateUnit(ctx, i, unit)
		if err != nil {
			return "", err
		}
		out = append(out, p.assembleUnit(unit, translated))

		message := fmt.Sprintf("已处理 %d/%d 段", i+1, len(units))
		if len(p.issues) > issuesBefore {
			message = fmt.Sprintf("第 %d/%d 段: %s", i+1, len(units), p.issues[len(p.issues)-1].Reason)
		}
		p.orch.ReportProgress(float64(i+1)/float64(len(units)), message)
	}

	outPath := OutputPath(filePath, p.opts.TargetLang)
	if err := os.WriteFile(outPath, []byte(strings.Join(out, "\n\n")+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write translated document: %w", err)
	}

	p.logger.Info("Document translated",
		zap.String("input", filePath),
		zap.String("output", outPath),
		zap.Int("units", len(units)),
		zap.Int("issues", len(p.issues)))

	return outPath, nil
}

// translateUnit runs the per-unit pipeline. A skipped or degraded unit
// comes back as its original text; only a hard backend failure after all
// retries and fallbacks returns an error.
func (p *Processor) translateUnit(ctx context.Context, index int, text string) (string, error) {
	if decision := p.gate.Check(text, p.opts.SourceLang, p.opts.TargetLang); decision.Skip {
		p.logger.Debug("Unit skipped",
			zap.Int("unit", index),
			zap.String("reason", decision.Reason))
		return text, nil
	}

	prepared := text
	var mapping *terminology.Mapping
	var matches []terminology.Match

	if p.opts.UseTerminology && len(p.table) > 0 {
		if p.opts.PreprocessTerms {
			prepared = terminology.DirectReplace(text, p.table)
		} else {
			matches = terminology.Extract(text, p.table)
			prepared, mapping = terminology.Substitute(text, matches)
		}
	}

	req := backend.Request{
		Text:       prepared,
		SourceLang: p.opts.SourceLang,
		TargetLang: p.opts.TargetLang,
		Prompt:     p.opts.ExtraPrompt,
	}
	if len(matches) > 0 {
		req.Terminology = make(map[string]string, len(matches))
		for _, match := range matches {
			req.Terminology[match.Source] = match.Target
		}
	}

	outcome := p.orch.Translate(ctx, req)
	switch outcome.Status {
	case orchestrator.StatusSuccess:
		restored := outcome.Text
		if mapping.Len() > 0 {
			var unresolved []string
			restored, unresolved = mapping.Restore(outcome.Text, terminology.ToTarget, p.logger)
			if len(unresolved) > 0 {
				p.recordIssue(index, text, fmt.Sprintf("术语占位符丢失: %s", strings.Join(unresolved, ", ")))
			}
		}
		return restored, nil

	case orchestrator.StatusDegraded:
		// The degraded text is the request text, placeholders included;
		// restore them to the source terms to hand back the original unit.
		restored := text
		if mapping.Len() > 0 {
			restored, _ = mapping.Restore(outcome.Text, terminology.ToSource, p.logger)
		}
		p.recordIssue(index, text, fmt.Sprintf("翻译失败，保留原文 (%s)", outcome.Reason))
		return restored, nil

	default:
		return "", fmt.Errorf("unit %d: %w", index+1, outcome.Err)
	}
}

func (p *Processor) recordIssue(index int, text, reason string) {
	p.issues = append(p.issues, Issue{Unit: index, Text: text, Reason: reason})
	p.logger.Warn("Unit flagged for review",
		zap.Int("unit", index),
		zap.String("reason", reason))
}

// assembleUnit formats one output unit. Skipped and degraded units carry
// identical original/translated text and are emitted once in either
// format.
func (p *Processor) assembleUnit(original, translated string) string {
	if p.opts.OutputFormat == FormatTranslationOnly || translated == original {
		return translated
	}
	return original + "\n" + translated
}

// SplitUnits splits a document into paragraph units on blank lines.
// Whitespace-only paragraphs are dropped; order is preserved.
func SplitUnits(text string) []string {
	var units []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			units = append(units, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return units
}

// OutputPath derives the translated file's path: report.txt translated
// to English becomes report.en.txt.
func OutputPath(filePath, targetLang string) string {
	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filePath, ext)
	if ext == "" {
		ext = ".txt"
	}
	return fmt.Sprintf("%s.%s%s", base, targetLang, ext)
}
