package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the sathi API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Chat      ChatConfig      `yaml:"chat"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings for conversations and the
// redis vector-index driver.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// CorpusConfig holds document ingestion settings.
type CorpusConfig struct {
	DataDir   string `yaml:"data_dir"`
	ChunkSize int    `yaml:"chunk_size"` // runes per chunk
	// ChunkOverlap is the rune count shared between neighboring chunks.
	// 0 means unset and takes the default; use a negative value for no overlap.
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Driver          string `yaml:"driver"` // file, redis (default: file)
	Dir             string `yaml:"dir"`    // persistence directory for the file driver
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// EmbeddingConfig holds the embedding provider settings. An empty api_key
// disables embedding-backed retrieval (degraded mode).
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// LLMConfig holds the chat completion provider settings. An empty api_key
// switches the orchestrator to mock replies.
type LLMConfig struct {
	APIKey                 string  `yaml:"api_key"`
	BaseURL                string  `yaml:"base_url"`
	Model                  string  `yaml:"model"`
	Temperature            float32 `yaml:"temperature"`
	TranslationTemperature float32 `yaml:"translation_temperature"`
}

// SearchConfig holds the live web search settings.
type SearchConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ChatConfig holds conversational pipeline settings.
type ChatConfig struct {
	HistoryWindow  int    `yaml:"history_window"` // prior turns included in a prompt
	MaxContextDocs int    `yaml:"max_context_docs"`
	PromptVariant  string `yaml:"prompt_variant"` // krishisathi/v1, concise/v1
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// LLM round-trips dominate request latency
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "sathi:"
	}
	if c.Corpus.DataDir == "" {
		c.Corpus.DataDir = "data"
	}
	if c.Corpus.ChunkSize <= 0 {
		c.Corpus.ChunkSize = 1000
	}
	if c.Corpus.ChunkOverlap < 0 {
		c.Corpus.ChunkOverlap = 0
	} else if c.Corpus.ChunkOverlap == 0 {
		c.Corpus.ChunkOverlap = 200
	}
	if c.Index.Driver == "" {
		c.Index.Driver = "file"
	}
	if c.Index.Dir == "" {
		c.Index.Dir = "index"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 32
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TranslationTemperature <= 0 {
		c.LLM.TranslationTemperature = 0.1
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.duckduckgo.com"
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 10
	}
	if c.Chat.HistoryWindow <= 0 {
		c.Chat.HistoryWindow = 10
	}
	if c.Chat.MaxContextDocs <= 0 {
		c.Chat.MaxContextDocs = 3
	}
	if c.Chat.PromptVariant == "" {
		c.Chat.PromptVariant = "krishisathi/v1"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Index.Driver {
	case "file", "redis":
		// ok
	default:
		return fmt.Errorf("index.driver must be \"file\" or \"redis\", got %q", c.Index.Driver)
	}
	if c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		return fmt.Errorf(
			"corpus.chunk_overlap (%d) must be smaller than corpus.chunk_size (%d)",
			c.Corpus.ChunkOverlap, c.Corpus.ChunkSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
