package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete defnav configuration (v1 schema)
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	RootDir string `json:"rootDir" mapstructure:"rootDir"`

	Oracle     OracleConfig     `json:"oracle" mapstructure:"oracle"`
	Classifier ClassifierConfig `json:"classifier" mapstructure:"classifier"`
	Workspace  WorkspaceConfig  `json:"workspace" mapstructure:"workspace"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// OracleConfig contains oracle backend configuration
type OracleConfig struct {
	IndexPath       string `json:"indexPath" mapstructure:"indexPath"`
	QueryTimeoutMs  int    `json:"queryTimeoutMs" mapstructure:"queryTimeoutMs"`
	CacheEnabled    bool   `json:"cacheEnabled" mapstructure:"cacheEnabled"`
	CacheTtlSeconds int    `json:"cacheTtlSeconds" mapstructure:"cacheTtlSeconds"`
}

// ClassifierConfig contains classification configuration
type ClassifierConfig struct {
	// Engine selects the classifier implementation. Only "tree-sitter"
	// is supported; "none" disables the classification gate.
	Engine string `json:"engine" mapstructure:"engine"`
}

// WorkspaceConfig contains solution graph configuration
type WorkspaceConfig struct {
	ManifestPath string `json:"manifestPath" mapstructure:"manifestPath"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		RootDir: ".",
		Oracle: OracleConfig{
			IndexPath:       ".defnav/index.scip",
			QueryTimeoutMs:  5000,
			CacheEnabled:    true,
			CacheTtlSeconds: 300,
		},
		Classifier: ClassifierConfig{
			Engine: "tree-sitter",
		},
		Workspace: WorkspaceConfig{
			ManifestPath: ".defnav/workspace.yaml",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .defnav/config.json
func LoadConfig(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("rootDir", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(rootDir, ".defnav"))

	if err := v.ReadInConfig(); err != nil {
		// Missing config means defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .defnav/config.json
func (c *Config) Save(rootDir string) error {
	dir := filepath.Join(rootDir, ".defnav")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Oracle.QueryTimeoutMs <= 0 {
		return &ConfigError{Field: "oracle.queryTimeoutMs", Message: "must be positive"}
	}
	if c.Oracle.CacheEnabled && c.Oracle.CacheTtlSeconds <= 0 {
		return &ConfigError{Field: "oracle.cacheTtlSeconds", Message: "must be positive when the cache is enabled"}
	}
	switch c.Classifier.Engine {
	case "tree-sitter", "none":
	default:
		return &ConfigError{Field: "classifier.engine", Message: "unknown engine"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "unknown format"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
