package config

// Config represents the complete configuration structure
type Config struct {
	Portal  PortalConfig  `mapstructure:"portal" yaml:"portal"`
	Captcha CaptchaConfig `mapstructure:"captcha" yaml:"captcha"`
	Booking BookingConfig `mapstructure:"booking" yaml:"booking"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// PortalConfig holds the eServices portal origin and login credentials
type PortalConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

// CaptchaConfig holds captcha recognition settings
type CaptchaConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" yaml:"gemini_api_key"`
	Model        string `mapstructure:"model" yaml:"model"`
}

// BookingConfig contains booking defaults that flags may override
type BookingConfig struct {
	Room  string `mapstructure:"room" yaml:"room"`
	Times string `mapstructure:"times" yaml:"times"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Color  bool   `mapstructure:"color" yaml:"color"`
}
