package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the language of book text. It is built once, the
// underlying models are expensive to load.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			Build(),
	}
}

// Detect returns the ISO 639-1 code ("en", "de", "zh", ...) of the text,
// or ok=false when no language is confident enough.
func (d *Detector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
