package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Bench    BenchConfig
	Dataset  DatasetConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret   string
	TTLHours int
}

// BenchConfig holds benchmark defaults. InitialRating is the single seed used
// everywhere a provider enters the rating pool for the first time.
type BenchConfig struct {
	KFactor        float64
	InitialRating  float64
	Concurrency    int
	TimeoutSeconds int
	PingTimeoutSec int
}

type DatasetConfig struct {
	CorpusDir      string
	AnthropicKey   string
	AnthropicModel string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sessionTTL, err := getEnvInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
	}

	kFactor, err := getEnvFloat("ELO_K_FACTOR", 32)
	if err != nil {
		return nil, fmt.Errorf("invalid ELO_K_FACTOR: %w", err)
	}

	initialRating, err := getEnvFloat("ELO_INITIAL_RATING", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid ELO_INITIAL_RATING: %w", err)
	}

	concurrency, err := getEnvInt("BENCH_CONCURRENCY", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_CONCURRENCY: %w", err)
	}

	timeoutSec, err := getEnvInt("BENCH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_TIMEOUT_SECONDS: %w", err)
	}

	pingTimeoutSec, err := getEnvInt("BENCH_PING_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_PING_TIMEOUT_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", ""),
			TTLHours: sessionTTL,
		},
		Bench: BenchConfig{
			KFactor:        kFactor,
			InitialRating:  initialRating,
			Concurrency:    concurrency,
			TimeoutSeconds: timeoutSec,
			PingTimeoutSec: pingTimeoutSec,
		},
		Dataset: DatasetConfig{
			CorpusDir:      getEnv("DATASET_CORPUS_DIR", ""),
			AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel: getEnv("DATASET_ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Session.Secret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
