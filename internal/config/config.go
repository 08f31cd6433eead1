package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Z-Beam configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Data file paths
	Data DataConfig `yaml:"data"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Image generation configuration
	Images ImagesConfig `yaml:"images"`

	// Quality gating configuration
	Quality QualityConfig `yaml:"quality"`

	// Research bridge configuration
	Research ResearchConfig `yaml:"research"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the YAML data files and output directories.
type DataConfig struct {
	MaterialsPath  string `yaml:"materials_path"`
	CategoriesPath string `yaml:"categories_path"`
	ContentDir     string `yaml:"content_dir"`
	ImagesDir      string `yaml:"images_dir"`
	DatabasePath   string `yaml:"database_path"`
	MonitorPath    string `yaml:"monitor_path"`
}

// LLMConfig configures the text generation clients.
type LLMConfig struct {
	Provider   string `yaml:"provider"` // gemini, grok
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// ImagesConfig configures the Imagen/Gemini image pipeline.
type ImagesConfig struct {
	Model           string `yaml:"model"`
	Project         string `yaml:"project"`
	CredentialsFile string `yaml:"credentials_file"`
	MaxPromptLen    int    `yaml:"max_prompt_len"`
}

// QualityConfig configures scoring and threshold learning.
type QualityConfig struct {
	WinstonAPIKey    string  `yaml:"winston_api_key"`
	WinstonBaseURL   string  `yaml:"winston_base_url"`
	FeedbackDBPath   string  `yaml:"feedback_db_path"`
	DefaultThreshold float64 `yaml:"default_threshold"`
	ThresholdFloor   float64 `yaml:"threshold_floor"`
	ThresholdCeiling float64 `yaml:"threshold_ceiling"`
	Percentile       float64 `yaml:"percentile"`
	MinSamples       int     `yaml:"min_samples"`
}

// ResearchConfig configures the AI research bridge.
type ResearchConfig struct {
	Simulated     bool    `yaml:"simulated"`
	MinConfidence float64 `yaml:"min_confidence"`
	MaxRetries    int     `yaml:"max_retries"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "Z-Beam",
		Version: "1.0.0",

		Data: DataConfig{
			MaterialsPath:  "data/Materials.yaml",
			CategoriesPath: "data/Categories.yaml",
			ContentDir:     "content",
			ImagesDir:      "public/images",
			DatabasePath:   "data/z-beam.db",
			MonitorPath:    "data/payload_failures.json",
		},

		LLM: LLMConfig{
			Provider:   "gemini",
			Model:      "gemini-2.5-flash",
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Timeout:    "120s",
			MaxRetries: 3,
		},

		Images: ImagesConfig{
			Model:        "imagen-3.0-generate-002",
			MaxPromptLen: 1800,
		},

		Quality: QualityConfig{
			WinstonBaseURL:   "https://api.gowinston.ai/v2",
			FeedbackDBPath:   "data/winston_feedback.db",
			DefaultThreshold: 70.0,
			ThresholdFloor:   55.0,
			ThresholdCeiling: 90.0,
			Percentile:       25.0,
			MinSamples:       20,
		},

		Research: ResearchConfig{
			Simulated:     false,
			MinConfidence: 0.7,
			MaxRetries:    3,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "zbeam.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "gemini"
		}
	}
	if key := os.Getenv("XAI_API_KEY"); key != "" && c.LLM.Provider == "grok" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("WINSTON_API_KEY"); key != "" {
		c.Quality.WinstonAPIKey = key
	}
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		c.Images.Project = project
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		c.Images.CredentialsFile = creds
	}
	if path := os.Getenv("ZBEAM_DB"); path != "" {
		c.Data.DatabasePath = path
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"gemini", "grok"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set GEMINI_API_KEY or XAI_API_KEY)")
	}

	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	if c.Quality.ThresholdFloor > c.Quality.ThresholdCeiling {
		return fmt.Errorf("threshold floor %.1f above ceiling %.1f", c.Quality.ThresholdFloor, c.Quality.ThresholdCeiling)
	}

	return nil
}
