package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendRedis = "redis"
	BackendMongo = "mongo"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	ListenPort      string        // ex: ":5000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline (ex: 10s)
	Env             string        // "development" | "production"

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Sessions
	JWTSecret string        // HS256 signing key
	TokenTTL  time.Duration // 0 = tokens never expire

	// StoreBackend picks the listing store. Redis GEO cannot index latitudes
	// beyond ±85.05112878°, so polar deployments need "mongo".
	StoreBackend string // "redis" | "mongo"

	// Redis (always used for accounts, and for listings with the redis backend)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize         int           // Redis connection pool size

	// Mongo (listings with the mongo backend)
	MongoURI            string        // ex: "mongodb://localhost:27017"
	MongoDatabase       string        // ex: "geomarket"
	MongoConnectTimeout time.Duration // total time to retry connecting

	// Start-up retry, shared by both backends
	ConnectTimeout time.Duration // total time to retry connecting to Redis (ex: 30s)
	RetryInterval  time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	WarnThreshold  int           // warn after this many attempts

	// Fixtures
	SeedFile           string        // optional YAML fixtures (empty = seeding disabled)
	SeedReloadInterval time.Duration // 0 = import once at start

	// Identity verification credentials, carried for deployments that set them
	IDVAPIKey    string
	IDVAPISecret string

	AllowedCIDRS []string // optional, restrict operational endpoints (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // browser origins allowed by CORS (empty = any)
}

// Development reports whether 500 responses may carry raw errors.
func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("GEOMARKET_LISTEN_PORT", ":5000"),
		ShutdownTimeout: mustDuration("GEOMARKET_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("GEOMARKET_REQUEST_TIMEOUT", 10*time.Second),
		Env:             strings.ToLower(getenv("GEOMARKET_ENV", EnvProduction)),

		// Logging
		LogLevel:  getenv("GEOMARKET_LOG_LEVEL", "info"),
		PrettyLog: mustBool("GEOMARKET_PRETTY_LOG", false),

		// Sessions
		JWTSecret: requireEnv("GEOMARKET_JWT_SECRET"),
		TokenTTL:  mustDuration("GEOMARKET_TOKEN_TTL", 0),

		StoreBackend: strings.ToLower(getenv("GEOMARKET_STORE_BACKEND", BackendRedis)),

		// Redis settings
		RedisAddr:             requireEnv("GEOMARKET_REDIS_ADDR"),
		RedisUser:             getenv("GEOMARKET_REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("GEOMARKET_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("GEOMARKET_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("GEOMARKET_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),

		// Mongo settings
		MongoURI:            getenv("GEOMARKET_MONGO_URI", ""),
		MongoDatabase:       getenv("GEOMARKET_MONGO_DATABASE", "geomarket"),
		MongoConnectTimeout: mustDuration("GEOMARKET_MONGO_CONNECT_TIMEOUT", 30*time.Second),

		// Retry settings
		ConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		MaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		PingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		WarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Fixtures
		SeedFile:           getenv("GEOMARKET_SEED_FILE", ""),
		SeedReloadInterval: mustDuration("GEOMARKET_SEED_RELOAD_INTERVAL", 0),

		IDVAPIKey:    getenv("GEOMARKET_IDV_API_KEY", ""),
		IDVAPISecret: getenv("GEOMARKET_IDV_API_SECRET", ""),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("GEOMARKET_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("GEOMARKET_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("GEOMARKET_CORS_ORIGINS", "")),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.redacted())
	}

	return cfg
}

func (c *Config) validate() error {
	if c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("GEOMARKET_REDIS_PASSWORD is required when GEOMARKET_REDIS_PASSWORD_REQUIRED=true")
	}
	switch c.StoreBackend {
	case BackendRedis:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("GEOMARKET_MONGO_URI is required when GEOMARKET_STORE_BACKEND=%s", BackendMongo)
		}
	default:
		return fmt.Errorf("unknown GEOMARKET_STORE_BACKEND %q (want %s or %s)", c.StoreBackend, BackendRedis, BackendMongo)
	}
	if c.SeedReloadInterval < 0 {
		return fmt.Errorf("GEOMARKET_SEED_RELOAD_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) redacted() Config {
	cp := *c
	const mask = "***REDACTED***"
	for _, s := range []*string{&cp.JWTSecret, &cp.RedisPassword, &cp.IDVAPIKey, &cp.IDVAPISecret} {
		if *s != "" {
			*s = mask
		}
	}
	if cp.RedisUser != "" {
		cp.RedisUser = mask
	}
	if cp.MongoURI != "" {
		cp.MongoURI = mask
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
