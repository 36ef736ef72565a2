package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultHTTPTimeout is used when HTTP_TIMEOUT is unset
const DefaultHTTPTimeout = 30 * time.Second

// EnvValidator handles validation of environment variables
type EnvValidator struct{}

// NewEnvValidator creates a new environment validator instance
func NewEnvValidator() *EnvValidator {
	return &EnvValidator{}
}

// ValidateFormats checks every variable that is set and reports all the bad ones at once.
// Nothing is required; unset variables fall back to defaults.
func (e *EnvValidator) ValidateFormats() error {
	var invalidVars []string

	if _, err := e.GetHTTPTimeout(); err != nil {
		invalidVars = append(invalidVars, "HTTP_TIMEOUT")
	}
	for _, name := range []string{"ASSET_REPO_URL", "CUTSCENE_REPO_URL"} {
		if raw := os.Getenv(name); raw != "" && checkRepoURL(raw) != nil {
			invalidVars = append(invalidVars, name)
		}
	}

	if len(invalidVars) > 0 {
		return fmt.Errorf("invalid environment variables: %v. Please fix these variables in your .env file or environment", invalidVars)
	}
	return nil
}

// GetLogLevel returns LOG_LEVEL upper-cased, INFO when unset
func (e *EnvValidator) GetLogLevel() string {
	level := strings.ToUpper(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		return "INFO"
	}
	return level
}

// GetHTTPTimeout parses HTTP_TIMEOUT as a Go duration
func (e *EnvValidator) GetHTTPTimeout() (time.Duration, error) {
	raw := os.Getenv("HTTP_TIMEOUT")
	if raw == "" {
		return DefaultHTTPTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("HTTP_TIMEOUT must be a duration such as 30s, got: %s", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", raw)
	}
	return d, nil
}

// GetRepoURLs returns the repository overrides; empty strings mean the defaults
func (e *EnvValidator) GetRepoURLs() (repoURL, cutsceneURL string, err error) {
	repoURL = os.Getenv("ASSET_REPO_URL")
	cutsceneURL = os.Getenv("CUTSCENE_REPO_URL")

	if repoURL != "" {
		if err := checkRepoURL(repoURL); err != nil {
			return "", "", fmt.Errorf("ASSET_REPO_URL: %w", err)
		}
	}
	if cutsceneURL != "" {
		if err := checkRepoURL(cutsceneURL); err != nil {
			return "", "", fmt.Errorf("CUTSCENE_REPO_URL: %w", err)
		}
	}
	return repoURL, cutsceneURL, nil
}

// GetHistoryDB returns the history database path, or "" when HISTORY_DB is "off"
func (e *EnvValidator) GetHistoryDB() string {
	raw := strings.TrimSpace(os.Getenv("HISTORY_DB"))
	switch {
	case strings.EqualFold(raw, HistoryDisabled):
		return ""
	case raw != "":
		return raw
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "spine-mod-loader", "history.db")
}
