package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Image   ImageConfig   `toml:"image"`
	Limits  LimitsConfig  `toml:"limits"`
	Scraper ScraperConfig `toml:"scraper"`
	Output  OutputConfig  `toml:"output"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	AdCopy  AdCopyConfig  `toml:"adcopy"`
}

// AIConfig holds completion provider settings. Model is used for ad copy,
// AnalysisModel for site analysis and translation.
type AIConfig struct {
	Provider          string `toml:"provider"`
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Model             string `toml:"model"`
	AnalysisModel     string `toml:"analysis_model"`
	RequestsPerSecond int    `toml:"requests_per_second"`
}

// ImageConfig holds image generation settings.
type ImageConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
}

// LimitsConfig holds the character limits.
type LimitsConfig struct {
	HeadlineMaxChars int `toml:"headline_max_chars"`
	BodyMaxChars     int `toml:"body_max_chars"`
	AnalysisMaxChars int `toml:"analysis_max_chars"`
}

// ScraperConfig holds website fetch settings.
type ScraperConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// OutputConfig holds where generation records are written.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `toml:"port"`
	AutoOpenBrowser bool `toml:"auto_open_browser"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// AdCopyConfig extends the body clean-up applied to model output.
type AdCopyConfig struct {
	BodyArtifacts        []string `toml:"body_artifacts"`
	BodyArtifactPatterns []string `toml:"body_artifact_patterns"`
}

const defaultConfigContent = `[ai]
provider = "ollama"               # "ollama", "compatible", "openai", "anthropic" or "gemini"
api_key = ""                      # Not needed for ollama (or set AI_API_KEY env var)
base_url = ""                     # Defaults to http://localhost:11434/v1 for ollama
model = "gemma3:4b"               # Ad-copy model
analysis_model = "llama3"         # Site analysis and translation model
requests_per_second = 2

[image]
provider = "huggingface"          # "huggingface" or "openai"
api_key = ""                      # Or set HF_TOKEN / IMAGE_API_KEY env var
model = "stabilityai/stable-diffusion-3.5-large"
width = 512
height = 512

[limits]
headline_max_chars = 30
body_max_chars = 90
analysis_max_chars = 3000

[scraper]
timeout_seconds = 10

[output]
dir = "json_outputs"

[server]
port = 8080
auto_open_browser = true

[log]
level = "info"

[adcopy]
body_artifacts = []               # Extra literal strings removed from the body
body_artifact_patterns = []       # Extra regular expressions removed from the body
`

// Default values.
const (
	defaultAIProvider        = "ollama"
	defaultOllamaModel       = "gemma3:4b"
	defaultOllamaAnalysis    = "llama3"
	defaultRequestsPerSecond = 2
	defaultImageProvider     = "huggingface"
	defaultImageSize         = 512
	defaultHeadlineMaxChars  = 30
	defaultBodyMaxChars      = 90
	defaultAnalysisMaxChars  = 3000
	defaultScraperTimeout    = 10
	defaultOutputDir         = "json_outputs"
	defaultPort              = 8080
	defaultLogLevel          = "info"
)

// defaultModels are the ad-copy models used when none is configured.
var defaultModels = map[string]string{
	"ollama":    defaultOllamaModel,
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5",
	"gemini":    "gemini-2.5-flash",
}

var defaultImageModels = map[string]string{
	"huggingface": "stabilityai/stable-diffusion-3.5-large",
	"openai":      "dall-e-2",
}

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. A .env file in the
// working directory is loaded first; environment variables override values
// from the file with highest priority.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// positiveKeys are the integer settings that must be >= 1 when written
// explicitly; zero would otherwise be replaced by the default.
var positiveKeys = []struct {
	section, key string
	value        func(*Config) int
}{
	{"limits", "headline_max_chars", func(c *Config) int { return c.Limits.HeadlineMaxChars }},
	{"limits", "body_max_chars", func(c *Config) int { return c.Limits.BodyMaxChars }},
	{"limits", "analysis_max_chars", func(c *Config) int { return c.Limits.AnalysisMaxChars }},
	{"scraper", "timeout_seconds", func(c *Config) int { return c.Scraper.TimeoutSeconds }},
	{"image", "width", func(c *Config) int { return c.Image.Width }},
	{"image", "height", func(c *Config) int { return c.Image.Height }},
	{"ai", "requests_per_second", func(c *Config) int { return c.AI.RequestsPerSecond }},
}

// validateExplicit checks values that were explicitly set in the TOML file.
// This catches cases like "port = 0" which would otherwise be silently
// replaced by the default value.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	for _, k := range positiveKeys {
		if md.IsDefined(k.section, k.key) {
			if v := k.value(cfg); v < 1 {
				return fmt.Errorf("invalid %s.%s %d: must be >= 1", k.section, k.key, v)
			}
		}
	}
	if md.IsDefined("output", "dir") && cfg.Output.Dir == "" {
		return errors.New("invalid output.dir: must not be empty")
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = defaultAIProvider
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModels[cfg.AI.Provider]
	}
	if cfg.AI.AnalysisModel == "" {
		if cfg.AI.Provider == defaultAIProvider {
			cfg.AI.AnalysisModel = defaultOllamaAnalysis
		} else {
			cfg.AI.AnalysisModel = cfg.AI.Model
		}
	}
	if cfg.AI.RequestsPerSecond == 0 {
		cfg.AI.RequestsPerSecond = defaultRequestsPerSecond
	}

	if cfg.Image.Provider == "" {
		cfg.Image.Provider = defaultImageProvider
	}
	if cfg.Image.Model == "" {
		cfg.Image.Model = defaultImageModels[cfg.Image.Provider]
	}
	if cfg.Image.Width == 0 {
		cfg.Image.Width = defaultImageSize
	}
	if cfg.Image.Height == 0 {
		cfg.Image.Height = defaultImageSize
	}

	if cfg.Limits.HeadlineMaxChars == 0 {
		cfg.Limits.HeadlineMaxChars = defaultHeadlineMaxChars
	}
	if cfg.Limits.BodyMaxChars == 0 {
		cfg.Limits.BodyMaxChars = defaultBodyMaxChars
	}
	if cfg.Limits.AnalysisMaxChars == 0 {
		cfg.Limits.AnalysisMaxChars = defaultAnalysisMaxChars
	}
	if cfg.Scraper.TimeoutSeconds == 0 {
		cfg.Scraper.TimeoutSeconds = defaultScraperTimeout
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	// auto_open_browser has no default: a missing bool decodes as false and
	// the generated config file sets it to true.
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY, matching ai.provider
//
// Priority for image.api_key:
//  1. IMAGE_API_KEY (generic, highest)
//  2. HF_TOKEN or OPENAI_API_KEY, matching image.provider
func applyEnvOverrides(cfg *Config) {
	// Apply provider-specific env vars first (lower priority).
	switch cfg.AI.Provider {
	case "openai":
		setFromEnv(&cfg.AI.APIKey, "OPENAI_API_KEY")
	case "anthropic":
		setFromEnv(&cfg.AI.APIKey, "ANTHROPIC_API_KEY")
	case "gemini":
		setFromEnv(&cfg.AI.APIKey, "GEMINI_API_KEY")
	}
	setFromEnv(&cfg.AI.APIKey, "AI_API_KEY")

	switch cfg.Image.Provider {
	case "huggingface":
		setFromEnv(&cfg.Image.APIKey, "HF_TOKEN")
	case "openai":
		setFromEnv(&cfg.Image.APIKey, "OPENAI_API_KEY")
	}
	setFromEnv(&cfg.Image.APIKey, "IMAGE_API_KEY")
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case "ollama", "compatible", "openai", "anthropic", "gemini":
		// valid
	default:
		return fmt.Errorf("invalid ai.provider %q: must be one of ollama, compatible, openai, anthropic, gemini", cfg.AI.Provider)
	}
	if cfg.AI.Model == "" {
		return fmt.Errorf("ai.model is required for provider %q", cfg.AI.Provider)
	}

	switch cfg.Image.Provider {
	case "huggingface", "openai":
		// valid
	default:
		return fmt.Errorf("invalid image.provider %q: must be \"huggingface\" or \"openai\"", cfg.Image.Provider)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}
	for _, k := range positiveKeys {
		if v := k.value(cfg); v < 1 {
			return fmt.Errorf("invalid %s.%s %d: must be >= 1", k.section, k.key, v)
		}
	}

	for _, expr := range cfg.AdCopy.BodyArtifactPatterns {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("invalid adcopy.body_artifact_patterns entry %q: %w", expr, err)
		}
	}

	if cfg.AI.APIKey == "" && cfg.AI.Provider != "ollama" {
		slog.Warn("ai.api_key is empty: set it in the config file or via AI_API_KEY environment variable")
	}
	if cfg.Image.APIKey == "" {
		slog.Warn("image.api_key is empty: image generation is unavailable until HF_TOKEN or IMAGE_API_KEY is set")
	}

	return nil
}
