// Package language detects which language a piece of content is written in.
package language

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Result describes the detected language
type Result struct {
	Code       string  `json:"code" yaml:"code"` // ISO 639-1, lower case
	Name       string  `json:"name" yaml:"name"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Detector wraps a lingua detector restricted to a set of languages
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector for the given ISO 639-1 codes.
// At least two distinct known languages are required.
func NewDetector(codes []string) (*Detector, error) {
	seen := make(map[lingua.IsoCode639_1]bool, len(codes))
	isoCodes := make([]lingua.IsoCode639_1, 0, len(codes))
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.TrimSpace(code))
		if iso == lingua.UnknownIsoCode639_1 {
			return nil, fmt.Errorf("unknown language code %q", code)
		}
		if seen[iso] {
			continue
		}
		seen[iso] = true
		isoCodes = append(isoCodes, iso)
	}
	if len(isoCodes) < 2 {
		return nil, fmt.Errorf("language detection needs at least two languages, got %d", len(isoCodes))
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromIsoCodes639_1(isoCodes...).
			WithMinimumRelativeDistance(0.1).
			Build(),
	}, nil
}

// Detect returns the most likely language of text. ok is false when the
// text is blank or too ambiguous to call.
func (d *Detector) Detect(text string) (Result, bool) {
	if d == nil || strings.TrimSpace(text) == "" {
		return Result{}, false
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Result{}, false
	}
	return Result{
		Code:       strings.ToLower(lang.IsoCode639_1().String()),
		Name:       lang.String(),
		Confidence: d.detector.ComputeLanguageConfidence(text, lang),
	}, true
}
