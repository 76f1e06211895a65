package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config aggregates all runtime configuration for the backend, loaded once
// at startup and treated as immutable afterward.
type Config struct {
	App struct {
		Name        string `env:"APP_NAME,notEmpty"`
		Env         string `env:"APP_ENV,notEmpty"`
		Host        string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
		Port        int    `env:"SERVER_PORT" envDefault:"8080"`
		ExternalURL string `env:"SERVER_EXTERNAL_URL,notEmpty"`
	}

	Database struct {
		Host          string `env:"POSTGRES_HOST,notEmpty"`
		Port          int    `env:"POSTGRES_PORT" envDefault:"5432"`
		Name          string `env:"POSTGRES_DB,notEmpty"`
		User          string `env:"POSTGRES_USER,notEmpty"`
		Password      string `env:"POSTGRES_PASSWORD,notEmpty"`
		SSLMode       string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MigrationsDir string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	}

	Redis struct {
		Addr       string `env:"REDIS_ADDR,notEmpty"`
		Username   string `env:"REDIS_USERNAME"`
		Password   string `env:"REDIS_PASSWORD"`
		DB         int    `env:"REDIS_DB" envDefault:"0"`
		TLSEnabled bool   `env:"REDIS_TLS_ENABLED" envDefault:"false"`
	}

	MinIO struct {
		Endpoint   string        `env:"MINIO_ENDPOINT,notEmpty"`
		Region     string        `env:"MINIO_REGION" envDefault:"us-east-1"`
		AccessKey  string        `env:"MINIO_ACCESS_KEY,notEmpty"`
		SecretKey  string        `env:"MINIO_SECRET_KEY,notEmpty"`
		UseSSL     bool          `env:"MINIO_USE_SSL" envDefault:"false"`
		Bucket     string        `env:"MINIO_BUCKET,notEmpty"`
		PresignTTL time.Duration `env:"MINIO_PRESIGNED_EXPIRATION_MINUTES" envDefault:"15m"`
	}

	JWT struct {
		Secret               string        `env:"JWT_SECRET,notEmpty"`
		AdminSecret          string        `env:"JWT_ADMIN_SECRET,notEmpty"`
		Issuer               string        `env:"JWT_ISSUER,notEmpty"`
		AccessTokenDuration  time.Duration `env:"JWT_ACCESS_TOKEN_MINUTES" envDefault:"15m"`
		RefreshTokenDuration time.Duration `env:"JWT_REFRESH_TOKEN_HOURS" envDefault:"720h"`
		PasswordPepper       string        `env:"PASSWORD_PEPPER,notEmpty"`
	}

	RateLimit struct {
		LoginAttempts int           `env:"RATE_LIMIT_LOGIN_ATTEMPTS" envDefault:"5"`
		LoginWindow   time.Duration `env:"RATE_LIMIT_LOGIN_WINDOW_SECONDS" envDefault:"60s"`
		HTTPRequests  int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
		HTTPWindow    time.Duration `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60s"`
	}

	SMTP struct {
		Host        string `env:"SMTP_HOST,notEmpty"`
		Port        int    `env:"SMTP_PORT" envDefault:"587"`
		Username    string `env:"SMTP_USERNAME"`
		Password    string `env:"SMTP_PASSWORD"`
		FromAddress string `env:"SMTP_FROM_ADDRESS,notEmpty"`
		TLSRequired bool   `env:"SMTP_TLS_REQUIRED" envDefault:"true"`
	}

	LLM struct {
		APIKey          string        `env:"LLM_API_KEY,notEmpty"`
		Model           string        `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`
		RequestTimeout  time.Duration `env:"LLM_REQUEST_TIMEOUT_SECONDS" envDefault:"5s"`
		TaskTimeout     time.Duration `env:"LLM_TASK_TIMEOUT_SECONDS" envDefault:"6s"`
		MaxRetries      int           `env:"LLM_MAX_RETRIES" envDefault:"1"`
	}

	Observability struct {
		PrometheusEnabled bool `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"true"`
		PrometheusPort    int  `env:"PROMETHEUS_METRICS_PORT" envDefault:"9090"`
	}

	CORS struct {
		AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	}
}

// CORSOrigins splits the configured comma-separated origin list. A single
// "*" entry is returned as-is and means wildcard mode.
func (c *Config) CORSOrigins() []string {
	raw := strings.Split(c.CORS.AllowedOrigins, ",")
	out := make([]string, 0, len(raw))
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads every environment variable into a fully populated Config.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load environment: %w", err)
	}

	return cfg, nil
}

// PostgresDSN builds the Postgres connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name, c.Database.SSLMode)
}
