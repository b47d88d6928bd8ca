// Package config provides configuration loading for NoteForge.
// Values come from defaults, an optional YAML file, a .env file and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Version is the build version reported by /health. Overridden with -ldflags.
var Version = "0.3.0"

// Converter backends.
const (
	BackendAnthropic  = "anthropic"
	BackendOpenRouter = "openrouter"
	BackendOpenAI     = "openai"
	BackendVertex     = "vertex"
	BackendTesseract  = "tesseract"
)

// Config holds all configuration for NoteForge.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Upload        UploadConfig        `yaml:"upload"`
	Converter     ConverterConfig     `yaml:"converter"`
	Compiler      CompilerConfig      `yaml:"compiler"`
	Locking       LockingConfig       `yaml:"locking"`
	CORS          CORSConfig          `yaml:"cors"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// StorageConfig holds the filesystem layout.
type StorageConfig struct {
	Root    string `yaml:"root"`
	Uploads string `yaml:"uploads"`
	Latex   string `yaml:"latex"`
	PDF     string `yaml:"pdf"`
}

// UploadConfig bounds what POST /upload accepts.
type UploadConfig struct {
	MaxFileSize  int64    `yaml:"max_file_size"`
	MaxFiles     int      `yaml:"max_files"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// ConverterConfig selects and configures the page conversion backend.
type ConverterConfig struct {
	Backend    string           `yaml:"backend"`
	Model      string           `yaml:"model"`
	MaxTokens  int              `yaml:"max_tokens"`
	Timeout    time.Duration    `yaml:"timeout"` // whole-document budget, 0 disables
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Vertex     VertexConfig     `yaml:"vertex"`
	Tesseract  TesseractConfig  `yaml:"tesseract"`
}

// RateLimitConfig throttles outbound conversion calls. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// AnthropicConfig holds Anthropic Messages API settings.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Version string `yaml:"version"`
}

// OpenRouterConfig holds OpenRouter settings.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// OpenAIConfig holds OpenAI settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// VertexConfig holds Vertex AI settings.
type VertexConfig struct {
	Project string `yaml:"project"`
	Region  string `yaml:"region"`
}

// TesseractConfig holds local OCR settings.
type TesseractConfig struct {
	Binary   string `yaml:"binary"`
	Language string `yaml:"language"`
}

// CompilerConfig holds LaTeX toolchain settings.
type CompilerConfig struct {
	Engine        string        `yaml:"engine"` // tectonic, pdflatex, xelatex, lualatex, latexmk
	Binary        string        `yaml:"binary"` // defaults to the engine name
	Timeout       time.Duration `yaml:"timeout"`
	ScratchRoot   string        `yaml:"scratch_root"` // defaults to os.TempDir()
	LogTailBytes  int           `yaml:"log_tail_bytes"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	StaleAfter    time.Duration `yaml:"stale_after"`
}

// LockingConfig selects how artifact writes are serialised per document.
type LockingConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// CORSConfig holds browser origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             3000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     5 * time.Minute,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Storage: StorageConfig{
			Root:    ".",
			Uploads: "uploads",
			Latex:   "latex",
			PDF:     "pdf",
		},
		Upload: UploadConfig{
			MaxFileSize:  10 * 1024 * 1024,
			MaxFiles:     10,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
		Converter: ConverterConfig{
			Backend:   BackendAnthropic,
			MaxTokens: 1024,
			Timeout:   3 * time.Minute,
			Anthropic: AnthropicConfig{
				BaseURL: "https://api.anthropic.com/v1/messages",
				Version: "2023-06-01",
			},
			OpenRouter: OpenRouterConfig{
				BaseURL: "https://openrouter.ai/api/v1/chat/completions",
			},
			Tesseract: TesseractConfig{
				Binary:   "tesseract",
				Language: "eng",
			},
		},
		Compiler: CompilerConfig{
			Engine:        "tectonic",
			Timeout:       2 * time.Minute,
			LogTailBytes:  4096,
			SweepInterval: 10 * time.Minute,
			StaleAfter:    time.Hour,
		},
		Locking: LockingConfig{
			Driver: "memory",
			TTL:    5 * time.Minute,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
				Prefix:   "noteforge:lock:",
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
				"https://noteforge-nu.vercel.app",
			},
			AllowCredentials: true,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "noteforge",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Converter.Backend {
	case BackendAnthropic, BackendOpenRouter, BackendOpenAI, BackendVertex, BackendTesseract:
	default:
		return fmt.Errorf("invalid converter backend: %s", c.Converter.Backend)
	}

	switch c.Compiler.Engine {
	case "tectonic", "pdflatex", "xelatex", "lualatex", "latexmk":
	default:
		return fmt.Errorf("invalid latex engine: %s", c.Compiler.Engine)
	}

	if c.Locking.Driver != "memory" && c.Locking.Driver != "redis" {
		return fmt.Errorf("invalid locking driver: %s", c.Locking.Driver)
	}

	if c.Upload.MaxFiles < 1 {
		return fmt.Errorf("upload.max_files must be at least 1")
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}

	if len(c.Upload.AllowedTypes) == 0 {
		return fmt.Errorf("upload.allowed_types must not be empty")
	}

	if c.Converter.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("converter.rate_limit.requests_per_second must not be negative")
	}

	// The janitor must never see a workspace whose compile could still be running.
	if c.Compiler.Timeout <= 0 {
		return fmt.Errorf("compiler.timeout must be positive")
	}
	if c.Compiler.StaleAfter <= c.Compiler.Timeout {
		return fmt.Errorf("compiler.stale_after (%s) must exceed compiler.timeout (%s)",
			c.Compiler.StaleAfter, c.Compiler.Timeout)
	}

	return nil
}

// UploadsPath returns the directory holding uploaded page images.
func (c *Config) UploadsPath() string {
	return c.resolve(c.Storage.Uploads)
}

// LatexPath returns the directory holding <id>.tex artifacts.
func (c *Config) LatexPath() string {
	return c.resolve(c.Storage.Latex)
}

// PDFPath returns the directory holding compiled <id>.pdf outputs.
func (c *Config) PDFPath() string {
	return c.resolve(c.Storage.PDF)
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Storage.Root, dir)
}

// EnsureDirectories creates the storage directories if they are missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.UploadsPath(), c.LatexPath(), c.PDFPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", dir, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("STORAGE_ROOT"); v != "" {
		cfg.Storage.Root = v
	}

	if v := os.Getenv("CONVERTER_BACKEND"); v != "" {
		cfg.Converter.Backend = strings.ToLower(v)
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Converter.Model = v
	}

	// CLAUDE_API_KEY is the historical name; ANTHROPIC_API_KEY wins when both are set.
	if v := os.Getenv("CLAUDE_API_KEY"); v != "" {
		cfg.Converter.Anthropic.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Converter.Anthropic.APIKey = v
	}

	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.Converter.OpenRouter.APIKey = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Converter.OpenAI.APIKey = v
	}

	if v := os.Getenv("GCP_PROJECT"); v != "" {
		cfg.Converter.Vertex.Project = v
	}

	if v := os.Getenv("GCP_REGION"); v != "" {
		cfg.Converter.Vertex.Region = v
	}

	if v := os.Getenv("LATEX_ENGINE"); v != "" {
		cfg.Compiler.Engine = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Locking.Driver = "redis"
		cfg.Locking.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
