package localization

import (
	"fmt"
	"strings"

	"chatledger/sources/configuration"
	"chatledger/sources/platform"
)

type LocalizationConfig struct {
	Enabled   bool
	Languages []string
}

func NewLocalizationConfig(config *configuration.Config) (*LocalizationConfig, error) {
	c := &LocalizationConfig{
		Enabled:   platform.GetAsBool("DETECT_LANGUAGES", config.Localization.Enabled),
		Languages: platform.GetAsSlice("DETECT_LANGUAGES_LIST", config.Localization.Languages),
	}

	if !c.Enabled {
		return c, nil
	}
	if len(c.Languages) < 2 {
		return nil, fmt.Errorf("language detection needs at least two languages, got %d", len(c.Languages))
	}
	for _, code := range c.Languages {
		if _, ok := languages[strings.ToLower(code)]; !ok {
			return nil, fmt.Errorf("unsupported detection language %q", code)
		}
	}
	return c, nil
}
