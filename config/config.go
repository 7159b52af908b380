package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".xmum-booker")
}

// Load loads the configuration from file and environment.
// Environment variables take precedence over file values; a missing config
// file is not an error as long as the environment covers the required fields.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath("/etc/xmum-booker/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// No file found; environment variables may still supply everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnv wires the credential environment variables. These win over any
// file value, matching the documented resolution order.
func bindEnv(v *viper.Viper) {
	v.BindEnv("portal.username", "XMUM_USERNAME")
	v.BindEnv("portal.password", "XMUM_PASSWORD")
	v.BindEnv("captcha.gemini_api_key", "XMUM_GEMINI_KEY")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("portal.url", "https://eservices.xmu.edu.my")

	v.SetDefault("captcha.model", "gemini-flash-latest")

	v.SetDefault("booking.room", "group")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid. Every missing required
// field is reported in a single error so the user can fix them in one go.
func validate(cfg *Config) error {
	var missing []string
	if cfg.Portal.Username == "" {
		missing = append(missing, "portal.username (XMUM_USERNAME)")
	}
	if cfg.Portal.Password == "" {
		missing = append(missing, "portal.password (XMUM_PASSWORD)")
	}
	if cfg.Captcha.GeminiAPIKey == "" {
		missing = append(missing, "captcha.gemini_api_key (XMUM_GEMINI_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s (run 'xmum-booker setup')", strings.Join(missing, ", "))
	}

	if cfg.Portal.URL == "" {
		return fmt.Errorf("portal.url is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
