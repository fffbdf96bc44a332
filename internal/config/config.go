package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"prompt-server/internal/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
// Secret fields carry no envconfig tag: they are read from Docker
// secret files (with an env fallback for development) in LoadConfig.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Database (PostgreSQL)
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"prompt_db"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns int    `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBPassword string

	// Auth
	JWTSecret string

	// LLM defaults. Per-call provider profiles override these.
	OllamaBaseURL string        `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	LLMTimeout    time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`
	OpenAIAPIKey  string
	GeminiAPIKey  string

	// Messaging. Empty URL disables event publishing.
	RabbitMQURL string `envconfig:"RABBITMQ_URL" default:""`

	// Redis backs the execute rate limiter when set; otherwise an
	// in-memory store is used.
	RedisAddr        string `envconfig:"REDIS_ADDR" default:""`
	RedisDB          int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword    string
	ExecuteRateLimit uint `envconfig:"EXECUTE_RATE_LIMIT" default:"30"` // requests per minute per principal

	// Version lifecycle policy: when the active version is deleted,
	// promote the highest remaining version instead of clearing the
	// pointer. Off by default.
	PromoteOnActiveDelete bool `envconfig:"PROMPT_PROMOTE_ON_ACTIVE_DELETE" default:"false"`

	// CORS
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadConfig loads configuration from environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: could not load %s file: %v", envFilePath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: error checking %s file: %v", envFilePath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	var loadErr error
	cfg.DBPassword, loadErr = utils.ReadSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.JWTSecret, loadErr = utils.ReadSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}

	// Optional secrets: provider keys and the Redis password. A missing
	// key only disables the provider family that needs it.
	if v, err := utils.ReadSecret("openai_api_key"); err == nil {
		cfg.OpenAIAPIKey = v
	}
	if v, err := utils.ReadSecret("gemini_api_key"); err == nil {
		cfg.GeminiAPIKey = v
	}
	if v, err := utils.ReadSecret("redis_password"); err == nil {
		cfg.RedisPassword = v
	}

	return &cfg, nil
}
