package config

// Config holds hero configuration.
// Stored at: {home}/config.yaml
type Config struct {
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
	Generation GenerationCfg `mapstructure:"generation" yaml:"generation"`
	Paths      PathsCfg      `mapstructure:"paths" yaml:"paths"`
}

// GenerationCfg configures the sentence-generation service.
type GenerationCfg struct {
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// PathsCfg overrides pieces of the home directory layout. Empty values
// fall back to the standard locations under the home dir.
type PathsCfg struct {
	Datastore      string `mapstructure:"datastore" yaml:"datastore,omitempty"`
	ReferenceData  string `mapstructure:"reference_data" yaml:"reference_data,omitempty"`
	SourceDatasets string `mapstructure:"source_datasets" yaml:"source_datasets,omitempty"`
	Themes         string `mapstructure:"themes" yaml:"themes,omitempty"`
	Prompt         string `mapstructure:"prompt" yaml:"prompt,omitempty"`
	CallLog        string `mapstructure:"call_log" yaml:"call_log,omitempty"`
	Exports        string `mapstructure:"exports" yaml:"exports,omitempty"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Generation: GenerationCfg{
			APIKey:         "${OPENAI_API_KEY}",
			Temperature:    1.0,
			TimeoutSeconds: 120,
		},
	}
}
