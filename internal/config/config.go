// Package config loads folio configuration from a YAML file with
// environment overrides. A .env file next to the working directory is
// honored for API keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all folio configuration.
type Config struct {
	// DataDir is where the snapshot database and export artifacts
	// live. Defaults to ~/.folio.
	DataDir string `yaml:"data_dir"`

	AI      AIConfig      `yaml:"ai"`
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// AIConfig configures the description generator. When both provider
// keys are set, OpenAI takes precedence. Keys are usually set via the
// OPENAI_API_KEY / GEMINI_API_KEY environment variables, not the
// config file.
type AIConfig struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	Model        string `yaml:"model"`
}

// BackendConfig points the engine at a remote API server. When BaseURL
// is set, enrichment goes through the server instead of calling
// Gemini directly.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ServerConfig configures the `folio serve` API server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StorePath string `yaml:"store_path"`
}

// ExportConfig configures the export pipeline.
type ExportConfig struct {
	// Dir receives the artifacts. Empty means the current directory.
	Dir string `yaml:"dir"`
	// Theme is "light" or "dark".
	Theme string `yaml:"theme"`
	// ChromeBin optionally pins the browser binary used for PDF
	// rasterization.
	ChromeBin string `yaml:"chrome_bin"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the defaults applied before file and
// environment values.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".folio")

	return &Config{
		DataDir: dataDir,
		AI: AIConfig{
			OpenAIModel: "gpt-4",
			Model:       "gemini-2.5-flash",
		},
		Server: ServerConfig{
			Addr:      ":8000",
			StorePath: filepath.Join(dataDir, "portfolios.json"),
		},
		Export: ExportConfig{
			Theme: "light",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path (missing file means defaults),
// loads a .env file if one exists, and applies environment overrides.
func Load(path string) (*Config, error) {
	// Errors only mean there is no .env file to load.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SnapshotPath is the location of the local snapshot database.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "folio.db")
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.AI.OpenAIAPIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.GeminiAPIKey = key
	}
	if model := os.Getenv("FOLIO_GEMINI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if url := os.Getenv("FOLIO_BACKEND_URL"); url != "" {
		c.Backend.BaseURL = url
	}
	if dir := os.Getenv("FOLIO_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if addr := os.Getenv("FOLIO_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}
