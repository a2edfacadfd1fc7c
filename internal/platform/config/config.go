package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Protocol constants (TTLs,
// cookie names) are fixed design decisions and live in internal/oauth/policy,
// not here.
type Server struct {
	Addr string

	// Issuer is the public base URL of this provider; it becomes the iss
	// claim and the base for the discovery document endpoints.
	Issuer string

	// LoginURL is the login UI the authorization endpoint redirects
	// unauthenticated browsers to (with a return_to parameter).
	LoginURL string

	DatabaseURL string
	Redis       RedisConfig

	// PEM-encoded RSA key material for token signing and verification.
	PrivateKeyPath string
	PublicKeyPath  string

	// Optional YAML seed files applied at startup.
	ClientsSeedPath string
	UsersSeedPath   string

	// Audit publishing; empty broker list keeps audit in-process.
	KafkaBrokers []string
	AuditTopic   string
}

// RedisConfig mirrors the knobs the redis client wrapper applies on top of
// the parsed URL.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("SIGNET_ADDR", ":8080"),
		Issuer:          envOr("SIGNET_ISSUER", "http://localhost:8080"),
		LoginURL:        envOr("SIGNET_LOGIN_URL", "http://localhost:3000/login"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		PrivateKeyPath:  envOr("SIGNET_PRIVATE_KEY", "keys/private.pem"),
		PublicKeyPath:   envOr("SIGNET_PUBLIC_KEY", "keys/public.pem"),
		ClientsSeedPath: os.Getenv("SIGNET_CLIENTS_SEED"),
		UsersSeedPath:   os.Getenv("SIGNET_USERS_SEED"),
		AuditTopic:      envOr("SIGNET_AUDIT_TOPIC", "signet.audit"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if brokers := os.Getenv("SIGNET_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
