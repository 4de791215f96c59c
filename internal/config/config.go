package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type StorageDriver string

const (
	StorageSQLite StorageDriver = "sqlite"
	StorageFile   StorageDriver = "file"
)

type Config struct {
	// HTTP
	Port   int    `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	AppURL string `env:"APP_URL"`
	WebURL string `env:"WEB_URL"`

	// Auth
	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	AnonCookieTTL time.Duration `env:"ANON_COOKIE_TTL" envDefault:"1h"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gemini-2.5-flash"`
	LLMTemperature   float32     `env:"LLM_TEMPERATURE" envDefault:"0.8"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Google APIs
	PlacesAPIKey       string `env:"GOOGLE_API_KEY_PLACES"`
	CustomSearchAPIKey string `env:"GOOGLE_API_KEY_CUSTOMSEARCH"`
	CustomSearchEngine string `env:"GOOGLE_ENGINE_ID"`
	ImageFallbackURL   string `env:"IMAGE_FALLBACK_URL"`

	// Storage
	StorageDriver StorageDriver `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DatabaseURL   string        `env:"DATABASE_URL" envDefault:"file:whattoeat.db?cache=shared&mode=rwc"`
	DataFilePath  string        `env:"DATA_FILE_PATH" envDefault:"data/accounts.json"`
	EventLogPath  string        `env:"EVENT_LOG_PATH" envDefault:"logs/recommendations.jsonl"`

	// Sessions
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"10m"`
	SweepSchedule      string        `env:"SWEEP_SCHEDULE" envDefault:"@every 1m"`
	DeclinedCap        int           `env:"DECLINED_CAP" envDefault:"20"`
	MaxSessions        int           `env:"MAX_SESSIONS" envDefault:"0"`

	// StatsSchedule is when yesterday's recommendation stats are logged.
	// Empty disables the report.
	StatsSchedule string `env:"STATS_SCHEDULE" envDefault:"5 0 * * *"`

	// Outbound calls
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"20s"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// IsProduction reports whether cookies should be issued Secure and SameSite=Strict.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load parses the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderYandex:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.StorageDriver {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.DeclinedCap <= 0 {
		return fmt.Errorf("DECLINED_CAP must be positive, got %d", c.DeclinedCap)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	return nil
}
