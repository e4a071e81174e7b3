package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/signalist/notifier/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	LLM         LLMConfig     `toml:"llm"`
	Mail        MailConfig    `toml:"mail"`
	Market      MarketConfig  `toml:"market"`
	Jobs        JobsConfig    `toml:"jobs"`
	Users       UsersConfig   `toml:"users"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for summary generation (default: "gemini-2.5-flash-lite")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Generation temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for summary generation (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 2048)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Generation temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains provider selection for AI summarization
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// MailConfig contains SMTP configuration for outbound email
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`      // Default: 587
	Username string `toml:"username"`  // SMTP username (email address)
	Password string `toml:"password"`  // SMTP password or app password
	From     string `toml:"from"`      // From email address
	FromName string `toml:"from_name"` // From display name
	UseTLS   bool   `toml:"use_tls"`   // Use TLS encryption (default: true)
}

// MarketConfig contains market data API configuration
type MarketConfig struct {
	APIKey         string `toml:"api_key"`         // Market data API key
	BaseURL        string `toml:"base_url"`        // API base URL override (empty = provider default)
	RequestTimeout string `toml:"request_timeout"` // HTTP timeout as duration string (default: "30s")
	RateLimit      int    `toml:"rate_limit"`      // Requests per second (default: 10)
	NewsLookback   int    `toml:"news_lookback"`   // Days of news history to request (default: 5)
}

// JobsConfig contains configuration for the notification jobs
type JobsConfig struct {
	DailySchedule   string `toml:"daily_schedule" validate:"required"`   // Cron schedule for the daily summary (default: "0 12 * * *")
	SendConcurrency int    `toml:"send_concurrency" validate:"min=1"`    // Concurrent email sends in the dispatch stage (default: 4)
	MaxAttempts     int    `toml:"max_attempts" validate:"min=1,max=10"` // Handler re-invocations before a run is marked failed (default: 3)
}

// UsersConfig contains configuration for user seed file loading
type UsersConfig struct {
	SeedDir string `toml:"seed_dir"` // Directory containing user seed files (YAML)
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in notifier.toml; technical
// parameters are hardcoded for stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-2.5-flash-lite",
			Timeout:     "2m",
			RateLimit:   "4s", // 15 RPM free tier
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   2048,
			Timeout:     "2m",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Mail: MailConfig{
			Port:     587,
			FromName: "Signalist",
			UseTLS:   true,
		},
		Market: MarketConfig{
			RequestTimeout: "30s",
			RateLimit:      10,
			NewsLookback:   5,
		},
		Jobs: JobsConfig{
			DailySchedule:   "0 12 * * *", // Noon UTC, the product's digest window
			SendConcurrency: 4,
			MaxAttempts:     3,
		},
		Users: UsersConfig{
			SeedDir: "./users",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier files. Priority: env > last config file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for structural errors
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := ValidateJobSchedule(c.Jobs.DailySchedule); err != nil {
		return fmt.Errorf("invalid daily schedule: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NOTIFIER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Storage configuration
	if badgerPath := os.Getenv("NOTIFIER_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("NOTIFIER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("NOTIFIER_LOG_OUTPUT"); output != "" {
		parts := strings.Split(output, ",")
		outputs := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// AI providers
	if key := os.Getenv("NOTIFIER_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("NOTIFIER_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if key := os.Getenv("NOTIFIER_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("NOTIFIER_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Mail configuration
	if host := os.Getenv("NOTIFIER_SMTP_HOST"); host != "" {
		config.Mail.Host = host
	}
	if port := os.Getenv("NOTIFIER_SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Mail.Port = p
		}
	}
	if username := os.Getenv("NOTIFIER_SMTP_USERNAME"); username != "" {
		config.Mail.Username = username
	}
	if password := os.Getenv("NOTIFIER_SMTP_PASSWORD"); password != "" {
		config.Mail.Password = password
	}
	if from := os.Getenv("NOTIFIER_SMTP_FROM"); from != "" {
		config.Mail.From = from
	}

	// Market data configuration
	if key := os.Getenv("NOTIFIER_MARKET_API_KEY"); key != "" {
		config.Market.APIKey = key
	}
	if baseURL := os.Getenv("NOTIFIER_MARKET_BASE_URL"); baseURL != "" {
		config.Market.BaseURL = baseURL
	}

	// Job configuration
	if schedule := os.Getenv("NOTIFIER_DAILY_SCHEDULE"); schedule != "" {
		config.Jobs.DailySchedule = schedule
	}
	if concurrency := os.Getenv("NOTIFIER_SEND_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil && c > 0 {
			config.Jobs.SendConcurrency = c
		}
	}
	if seedDir := os.Getenv("NOTIFIER_USERS_SEED_DIR"); seedDir != "" {
		config.Users.SeedDir = seedDir
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> KV store -> config fallback -> error.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"NOTIFIER_GEMINI_API_KEY"},
		"anthropic_api_key": {"NOTIFIER_CLAUDE_API_KEY"},
		"claude_api_key":    {"NOTIFIER_CLAUDE_API_KEY"},
		"market_api_key":    {"NOTIFIER_MARKET_API_KEY"},
	}

	// For Claude, also honor the standard ANTHROPIC_API_KEY env var
	if name == "anthropic_api_key" || name == "claude_api_key" {
		if envValue := os.Getenv("ANTHROPIC_API_KEY"); envValue != "" {
			return envValue, nil
		}
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// ValidateJobSchedule validates a cron schedule expression
func ValidateJobSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	// Every-minute schedules would hammer the AI and mail providers
	if parts[0] == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(parts[0], "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(parts[0], "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
