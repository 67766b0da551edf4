package gate

import (
	"go.uber.org/zap"
)

// Gate composes the trivial-content classifier and the bilingual-pair
// detector into a single skip/translate decision. For a fixed
// configuration the decision is a pure function of
// (text, sourceLang, targetLang).
type Gate struct {
	classifier     *Classifier
	detector       *Detector
	skipTranslated bool
}

// New creates a Gate with default rules. skipTranslated controls whether
// the bilingual-pair stage runs at all; trivial-content rules always do.
func New(cfg Config, skipTranslated bool, logger *zap.Logger) *Gate {
	return &Gate{
		classifier:     NewClassifier(logger),
		detector:       NewDetector(cfg, logger),
		skipTranslated: skipTranslated,
	}
}

// Classifier exposes the trivial-content stage, e.g. for registering
// custom skip patterns.
func (g *Gate) Classifier() *Classifier {
	return g.classifier
}

// Check decides whether a unit needs translation. The trivial-content
// stage runs first; survivors go through bilingual-pair detection when
// enabled.
func (g *Gate) Check(text, sourceLang, targetLang string) Decision {
	if d := g.classifier.Classify(text); d.Skip {
		return d
	}

	if g.skipTranslated {
		if d := g.detector.DetectAlreadyTranslated(text, sourceLang, targetLang); d.Skip {
			return d
		}
	}

	return Decision{Skip: false, Reason: "需要翻译"}
}
