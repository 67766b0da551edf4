package gate

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestDetector() *Detector {
	return NewDetector(DefaultConfig(), zap.NewNop())
}

func TestDetectAdjacentPair(t *testing.T) {
	d := newTestDetector()

	dec := d.DetectAlreadyTranslated("产品名称\nProduct Name", "zh", "en")
	if !dec.Skip {
		t.Fatalf("Expected bilingual pair to be skipped, got %+v", dec)
	}
	if !strings.Contains(dec.Reason, "双语对") {
		t.Errorf("Expected pair reason, got %q", dec.Reason)
	}
}

func TestDetectMonolingualText(t *testing.T) {
	d := newTestDetector()

	dec := d.DetectAlreadyTranslated("这是一个需要翻译的中文内容", "zh", "en")
	if dec.Skip {
		t.Errorf("Monolingual text must not be skipped: %+v", dec)
	}
}

func TestDetectExplicitMarkers(t *testing.T) {
	d := newTestDetector()

	tests := []string{
		"【原文】质量标准【译文】Quality Standard",
		"原文：设备操作说明 译文：Equipment Operation Manual",
		"质量管理体系（Quality Management System）",
		"Crystal Crack（晶裂）",
	}
	for _, text := range tests {
		if dec := d.DetectAlreadyTranslated(text, "zh", "en"); !dec.Skip {
			t.Errorf("Expected marker skip for %q, got %+v", text, dec)
		}
	}
}

func TestDetectUnrelatedPairNotSkipped(t *testing.T) {
	d := newTestDetector()

	// Adjacent lines in different languages but with nothing in common:
	// differing digits, no shared keywords, no shared punctuation.
	dec := d.DetectAlreadyTranslated("温度为25度\nPressure reached 30 bar", "zh", "en")
	if dec.Skip {
		t.Errorf("Unrelated line pair must not be skipped: %+v", dec)
	}
}

func TestDetectSingleStrayWordNotSkipped(t *testing.T) {
	d := newTestDetector()

	// The Latin line has only one word, which fails the 2-distinct-words
	// candidate requirement.
	dec := d.DetectAlreadyTranslated("产品质量检测报告\nOK", "zh", "en")
	if dec.Skip {
		t.Errorf("Single stray word must not count as translation: %+v", dec)
	}
}

func TestDetectConsecutivePairs(t *testing.T) {
	d := newTestDetector()

	text := "产品名称\nProduct Name\n质量标准\nQuality Standard"
	dec := d.DetectAlreadyTranslated(text, "zh", "en")
	if !dec.Skip {
		t.Fatalf("Expected consecutive pairs to be skipped, got %+v", dec)
	}
}

func TestDetectDigitSequenceMatch(t *testing.T) {
	d := newTestDetector()

	// Same digit sequences plus matching punctuation push the score over
	// the bar even without keyword hits.
	text := "编号100，共25项。\nNo. 100, 25 items total."
	dec := d.DetectAlreadyTranslated(text, "zh", "en")
	if !dec.Skip {
		t.Errorf("Expected digit-matched pair to be skipped, got %+v", dec)
	}
}

func TestDetectAlternatingPattern(t *testing.T) {
	d := newTestDetector()

	// Short Latin lines fail the pair-candidate word requirement, but the
	// alternating language structure alone marks the unit bilingual.
	text := "质量标准文件\nStandards\n安全操作规程\nProcedures"
	dec := d.DetectAlreadyTranslated(text, "zh", "en")
	if !dec.Skip {
		t.Fatalf("Expected alternating structure to be skipped, got %+v", dec)
	}
	if !strings.Contains(dec.Reason, "交替") {
		t.Errorf("Expected alternating reason, got %q", dec.Reason)
	}
}

func TestDetectIdempotent(t *testing.T) {
	d := newTestDetector()

	for _, text := range []string{
		"产品名称\nProduct Name",
		"这是一个需要翻译的中文内容",
		"温度为25度\nPressure reached 30 bar",
	} {
		first := d.DetectAlreadyTranslated(text, "zh", "en")
		second := d.DetectAlreadyTranslated(text, "zh", "en")
		if first != second {
			t.Errorf("Detection of %q not idempotent: %v then %v", text, first, second)
		}
	}
}

func TestGateComposition(t *testing.T) {
	g := New(DefaultConfig(), true, zap.NewNop())

	if d := g.Check("123", "zh", "en"); !d.Skip || d.Reason != "纯数字" {
		t.Errorf("Expected 纯数字 skip, got %+v", d)
	}
	if d := g.Check("产品名称\nProduct Name", "zh", "en"); !d.Skip {
		t.Errorf("Expected bilingual skip, got %+v", d)
	}
	if d := g.Check("这是一个需要翻译的中文内容", "zh", "en"); d.Skip {
		t.Errorf("Expected translation needed, got %+v", d)
	}

	// With bilingual detection disabled only trivial content is skipped.
	g2 := New(DefaultConfig(), false, zap.NewNop())
	if d := g2.Check("产品名称\nProduct Name", "zh", "en"); d.Skip {
		t.Errorf("Detector disabled, expected no skip, got %+v", d)
	}
}
