// Package detector guesses the dominant language of a corpus so the
// keyword engine can pick the right stopword set.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// candidate languages match the deployments this system targets: English
// plus Ukrainian/Russian content.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Ukrainian,
	lingua.Russian,
}

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			WithPreloadedLanguageModels().
			Build(),
	}
}

// Detect returns the ISO 639-1 code of the most confident language, or
// "en" when the text carries no usable signal.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "en"
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "en"
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
