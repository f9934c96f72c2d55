package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/Checker-Finance/simulators/internal/secrets"
	pkgconfig "github.com/Checker-Finance/simulators/pkg/config"
)

// Config holds the runtime configuration of the lookup simulator.
type Config struct {
	ServiceName      string // e.g. "lookup-simulator"
	Env              string // e.g. "dev", "uat", "prod"
	LogLevel         string
	Port             int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	// Redis result cache and Postgres audit ledger. An empty RedisAddr disables
	// the store; an empty DatabaseURL disables only the ledger.
	RedisAddr           string
	RedisDB             int
	RedisPass           string
	DatabaseURL         string
	PGMaxConns          int
	PGMinConns          int
	PGMaxConnLifetime   time.Duration
	PGMaxConnIdleTime   time.Duration
	PGHealthCheckPeriod time.Duration
	AuditRetention      time.Duration
	AuditPruneInterval  time.Duration

	// Event fan-out. Empty values disable the corresponding publisher.
	NATSURL       string
	EventsSubject string
	EventsStream  string
	AMQPURL       string

	// When UseAWSSecrets is set, connection credentials are read from the
	// Secrets Manager entry {Env}/{ServiceName} and override the environment.
	UseAWSSecrets bool
	AWSRegion     string

	CatalogPath string // optional JSON overlay on the built-in catalog

	NetworkFailureRate     float64
	GeolocationFailureRate float64

	LookupCacheTTL   time.Duration
	CacheCleanupFreq time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	DefaultChainID string
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:      pkgconfig.GetEnv("SERVICE_NAME", "lookup-simulator"),
		Env:              pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:         pkgconfig.GetEnv("LOG_LEVEL", "info"),
		Port:             pkgconfig.GetEnvInt("LOOKUP_PORT", 9040),
		HTTPReadTimeout:  pkgconfig.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: pkgconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  pkgconfig.GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:    pkgconfig.GetEnvInt("HTTP_BODY_LIMIT", 64*1024),

		RedisAddr:           pkgconfig.GetEnv("REDIS_ADDR", ""),
		RedisDB:             pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:           pkgconfig.GetEnv("REDIS_PASS", ""),
		DatabaseURL:         pkgconfig.GetEnv("DATABASE_URL", ""),
		PGMaxConns:          pkgconfig.GetEnvInt("PG_MAX_CONNS", 10),
		PGMinConns:          pkgconfig.GetEnvInt("PG_MIN_CONNS", 2),
		PGMaxConnLifetime:   pkgconfig.GetEnvDuration("PG_MAX_CONN_LIFETIME", 30*time.Minute),
		PGMaxConnIdleTime:   pkgconfig.GetEnvDuration("PG_MAX_CONN_IDLE_TIME", 5*time.Minute),
		PGHealthCheckPeriod: pkgconfig.GetEnvDuration("PG_HEALTH_CHECK_PERIOD", 1*time.Minute),
		AuditRetention:      pkgconfig.GetEnvDuration("AUDIT_RETENTION", 30*24*time.Hour),
		AuditPruneInterval:  pkgconfig.GetEnvDuration("AUDIT_PRUNE_INTERVAL", 1*time.Hour),

		NATSURL:       pkgconfig.GetEnv("NATS_URL", ""),
		EventsSubject: pkgconfig.GetEnv("EVENTS_SUBJECT", "evt.lookup"),
		EventsStream:  pkgconfig.GetEnv("EVENTS_STREAM", "LOOKUP_EVENTS"),
		AMQPURL:       pkgconfig.GetEnv("AMQP_URL", ""),

		UseAWSSecrets: pkgconfig.GetEnvBool("USE_AWS_SECRETS", false),
		AWSRegion:     pkgconfig.GetEnv("AWS_REGION", "us-east-1"),

		CatalogPath: pkgconfig.GetEnv("CATALOG_PATH", ""),

		NetworkFailureRate:     pkgconfig.GetEnvFloat("NETWORK_FAILURE_RATE", 0.03),
		GeolocationFailureRate: pkgconfig.GetEnvFloat("GEOLOCATION_FAILURE_RATE", 0.10),

		LookupCacheTTL:   pkgconfig.GetEnvDuration("LOOKUP_CACHE_TTL", 1*time.Hour),
		CacheCleanupFreq: pkgconfig.GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute),

		RateLimitRPS:   pkgconfig.GetEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst: pkgconfig.GetEnvInt("RATE_LIMIT_BURST", 40),

		DefaultChainID: pkgconfig.GetEnv("DEFAULT_CHAIN_ID", "1"),
	}
}

// ApplyConnections overrides connection settings with the non-empty values in conn.
func (c *Config) ApplyConnections(conn secrets.Connections) {
	if conn.DatabaseURL != "" {
		c.DatabaseURL = conn.DatabaseURL
	}
	if conn.RedisPass != "" {
		c.RedisPass = conn.RedisPass
	}
	if conn.NATSURL != "" {
		c.NATSURL = conn.NATSURL
	}
	if conn.AMQPURL != "" {
		c.AMQPURL = conn.AMQPURL
	}
}
