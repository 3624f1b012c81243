package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Gateway   GatewayConfig
	Platform  PlatformConfig
	Wizard    WizardConfig
	Ticketing TicketingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	EnsureSchema   bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// GatewayConfig defines webhook authentication parameters for the event relay.
type GatewayConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

// PlatformConfig holds credentials and endpoints for the chat platform API.
type PlatformConfig struct {
	BaseURL            string
	BotToken           string
	ProtectedChannelID string
	CommandPrefix      string
}

// WizardConfig controls the interactive setup flow.
type WizardConfig struct {
	PromptTimeoutSeconds int
}

// TicketingConfig points at the external ticket subsystem.
type TicketingConfig struct {
	ServiceURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	ensureSchema := getEnvAsBool("POSTGRES_ENSURE_SCHEMA", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "guild-setup-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			EnsureSchema:   ensureSchema,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gateway: GatewayConfig{
			JWTSecret:       getEnv("GATEWAY_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("GATEWAY_TOKEN_TTL_MINUTES", 60),
		},
		Platform: PlatformConfig{
			BaseURL:            getEnv("PLATFORM_API_BASE_URL", "http://127.0.0.1:9090/api"),
			BotToken:           os.Getenv("PLATFORM_BOT_TOKEN"),
			ProtectedChannelID: os.Getenv("PLATFORM_PROTECTED_CHANNEL_ID"),
			CommandPrefix:      getEnv("PLATFORM_COMMAND_PREFIX", "!"),
		},
		Wizard: WizardConfig{
			PromptTimeoutSeconds: getEnvAsInt("WIZARD_PROMPT_TIMEOUT_SECONDS", 300),
		},
		Ticketing: TicketingConfig{
			ServiceURL: getEnv("TICKETING_SERVICE_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PromptTimeout returns the per-prompt wait window for wizard answers.
func (w WizardConfig) PromptTimeout() time.Duration {
	if w.PromptTimeoutSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(w.PromptTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
