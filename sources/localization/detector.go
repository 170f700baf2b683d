// Package localization tells which language chat messages are written in.
package localization

import (
	"strings"

	"chatledger/sources/tracing"

	"github.com/pemistahl/lingua-go"
)

const (
	MinTextLengthForDetection = 7
	MaxTextLengthForDetection = 256
)

var languages = map[string]lingua.Language{
	"de": lingua.German,
	"en": lingua.English,
	"es": lingua.Spanish,
	"fr": lingua.French,
	"id": lingua.Indonesian,
	"ja": lingua.Japanese,
	"ko": lingua.Korean,
	"pt": lingua.Portuguese,
	"ru": lingua.Russian,
	"vi": lingua.Vietnamese,
	"zh": lingua.Chinese,
}

type LanguageDetector struct {
	detector lingua.LanguageDetector
	codes    map[lingua.Language]string
	log      *tracing.Logger
}

// NewLanguageDetector returns nil when detection is disabled.
func NewLanguageDetector(config *LocalizationConfig, log *tracing.Logger) *LanguageDetector {
	if !config.Enabled {
		log.I("Language detection disabled")
		return nil
	}

	codes := make(map[lingua.Language]string, len(config.Languages))
	selected := make([]lingua.Language, 0, len(config.Languages))
	for _, code := range config.Languages {
		code = strings.ToLower(code)
		language := languages[code]
		codes[language] = code
		selected = append(selected, language)
	}

	detector := lingua.NewLanguageDetectorBuilder().FromLanguages(selected...).Build()

	log.I("Language detector initialized", "languages", config.Languages)
	return &LanguageDetector{detector: detector, codes: codes, log: log}
}

// DetectLanguage returns the ISO 639-1 code of text, or false when text is too short or ambiguous.
func (x *LanguageDetector) DetectLanguage(text string) (string, bool) {
	cleanText := strings.TrimSpace(text)

	if len([]rune(cleanText)) < MinTextLengthForDetection {
		return "", false
	}

	if language, exists := x.detector.DetectLanguageOf(truncate(cleanText, MaxTextLengthForDetection)); exists {
		return x.codes[language], true
	}

	x.log.D("Could not detect language", "text_length", len(cleanText))
	return "", false
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
