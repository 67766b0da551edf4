// Package gate decides, for each translation unit, whether it needs to be
// sent to a translation backend at all. It combines a trivial-content
// classifier (numbers, URLs, dates, codes) with a bilingual-pair detector
// that recognises text which already contains both the source and the
// target language. Decisions are pure functions of the input text and the
// language pair.
package gate
