package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"chatledger/sources/tracing"

	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

// NewYaml reads the configuration from CONFIG_PATH (default: config.yaml) on top of Defaults.
// A missing file is not an error; the tool runs on defaults and flags alone.
func NewYaml(log *tracing.Logger) (*Config, error) {
	defer tracing.ProfilePoint(log, "Configuration loaded", "configuration.load")()

	filePath := os.Getenv("CONFIG_PATH")
	if filePath == "" {
		filePath = "config.yaml"
	}

	config, err := Read(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.W("configuration file not found, using defaults", "path", filePath)
		return Defaults(), nil
	}
	if err != nil {
		log.E("failed to load configuration", tracing.InnerError, err, "path", filePath)
		return nil, err
	}

	log.I("configuration read", "path", filePath)
	return config, nil
}

func Read(filePath string) (*Config, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config := Defaults()
	if err := yaml.Unmarshal([]byte(expandEnv(string(content))), config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	return config, nil
}

// expandEnv replaces ${VAR} or ${VAR:default} with environment values.
func expandEnv(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		matches := envPattern.FindStringSubmatch(match)
		if value, exists := os.LookupEnv(matches[1]); exists {
			return value
		}
		return matches[2]
	})
}
