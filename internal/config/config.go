package config

import (
	"strings"
	"time"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Provider names.
const (
	EmbeddingOpenAI   = "openai"
	EmbeddingHash     = "hash"
	TranslationClaude = "claude"
	TranslationStub   = "stub"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Search      SearchConfig      `yaml:"search"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Translation TranslationConfig `yaml:"translation"`
	Events      EventsConfig      `yaml:"events"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig selects the document store and holds PostgreSQL settings.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"false"`
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"issuer"           env:"AUTH_JWT_ISSUER"       env-default:"impact-hub"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"10"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits the auth routes per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM" env-default:"30"`
}

// SearchConfig tunes the vector index and the catalog.
type SearchConfig struct {
	MinSimilarity float64       `yaml:"min_similarity" env:"SEARCH_MIN_SIMILARITY" env-default:"0.4"`
	CandidateCap  int           `yaml:"candidate_cap"  env:"SEARCH_CANDIDATE_CAP"  env-default:"200"`
	BuildWorkers  int           `yaml:"build_workers"  env:"SEARCH_BUILD_WORKERS"  env-default:"8"`
	RefineEnabled bool          `yaml:"refine_enabled" env:"SEARCH_REFINE_ENABLED" env-default:"false"`
	RefineTimeout time.Duration `yaml:"refine_timeout" env:"SEARCH_REFINE_TIMEOUT" env-default:"1500ms"`
}

// EmbeddingConfig selects the text embedder.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"   env:"EMBEDDING_PROVIDER"   env-default:"hash"`
	BaseURL    string `yaml:"base_url"   env:"EMBEDDING_BASE_URL"`
	APIKey     string `yaml:"api_key"    env:"EMBEDDING_API_KEY"`
	Model      string `yaml:"model"      env:"EMBEDDING_MODEL"      env-default:"text-embedding-3-small"`
	Dimensions int    `yaml:"dimensions" env:"EMBEDDING_DIMENSIONS" env-default:"256"`
}

// TranslationConfig selects the field translator.
type TranslationConfig struct {
	Provider    string        `yaml:"provider"    env:"TRANSLATION_PROVIDER"    env-default:"stub"`
	APIKey      string        `yaml:"api_key"     env:"TRANSLATION_API_KEY"`
	Model       string        `yaml:"model"       env:"TRANSLATION_MODEL"       env-default:"claude-3-5-haiku-latest"`
	MaxTokens   int64         `yaml:"max_tokens"  env:"TRANSLATION_MAX_TOKENS"  env-default:"2048"`
	Timeout     time.Duration `yaml:"timeout"     env:"TRANSLATION_TIMEOUT"     env-default:"20s"`
	Parallelism int           `yaml:"parallelism" env:"TRANSLATION_PARALLELISM" env-default:"4"`
}

// EventsConfig configures the workflow event publisher. Empty Brokers
// disables publishing.
type EventsConfig struct {
	Brokers        string        `yaml:"brokers"         env:"EVENTS_BROKERS"`
	Topic          string        `yaml:"topic"           env:"EVENTS_TOPIC"           env-default:"impact-hub.workflow"`
	PublishTimeout time.Duration `yaml:"publish_timeout" env:"EVENTS_PUBLISH_TIMEOUT" env-default:"2s"`
}

// MetricsConfig toggles the Prometheus collector and /metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// Enabled reports whether any broker is configured.
func (c EventsConfig) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}
