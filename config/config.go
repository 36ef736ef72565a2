package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
)

// HistoryDisabled is the HISTORY_DB value that turns the history store off
const HistoryDisabled = "off"

// AppConfig holds all configuration values for the mod loader
type AppConfig struct {
	LogLevel        string        // Logging level (DEBUG, INFO, WARN, ERROR, FATAL)
	HTTPTimeout     time.Duration // Timeout for a whole skeleton download
	AssetRepoURL    string        // Override for the idle/npc/illust asset repository
	CutsceneRepoURL string        // Override for the cutscene asset repository
	HistoryDB       string        // sqlite path, empty when history is disabled
	EnvFileLoaded   bool          // Whether a .env file was found
}

// LoadConfig loads and validates the configuration from the environment.
// A .env file in the working directory is applied first when present.
func LoadConfig() (*AppConfig, error) {
	loaded := godotenv.Load() == nil

	validator := NewEnvValidator()

	if err := validator.ValidateFormats(); err != nil {
		return nil, fmt.Errorf("environment validation failed: %w", err)
	}

	timeout, err := validator.GetHTTPTimeout()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTTP timeout: %w", err)
	}

	repoURL, cutsceneURL, err := validator.GetRepoURLs()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository URLs: %w", err)
	}

	config := &AppConfig{
		LogLevel:        validator.GetLogLevel(),
		HTTPTimeout:     timeout,
		AssetRepoURL:    repoURL,
		CutsceneRepoURL: cutsceneURL,
		HistoryDB:       validator.GetHistoryDB(),
		EnvFileLoaded:   loaded,
	}

	return config, nil
}

// HistoryEnabled reports whether folders should be recorded
func (c *AppConfig) HistoryEnabled() bool {
	return c.HistoryDB != ""
}

// Validate performs additional validation on the loaded configuration
func (c *AppConfig) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive, got: %s", c.HTTPTimeout)
	}

	for name, raw := range map[string]string{
		"asset repository":    c.AssetRepoURL,
		"cutscene repository": c.CutsceneRepoURL,
	} {
		if raw == "" {
			continue
		}
		if err := checkRepoURL(raw); err != nil {
			return fmt.Errorf("invalid %s URL: %w", name, err)
		}
	}

	validLogLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
		"FATAL": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s. Valid levels are: DEBUG, INFO, WARN, ERROR, FATAL", c.LogLevel)
	}

	return nil
}

func checkRepoURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
