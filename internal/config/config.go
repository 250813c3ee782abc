package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Ledger   LedgerConfig
}

type ServerConfig struct {
	AppEnv      string
	Port        string
	GinMode     string
	CORSOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// DSN builds the postgres connection URL.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

type JWTConfig struct {
	// Empty disables token verification (local development only).
	SecretKey string
}

type RedisConfig struct {
	// Empty Addr falls back to the in-process item lock.
	Addr        string
	Password    string
	DB          int
	LockTTL     time.Duration
	LockRetries int
}

type KafkaConfig struct {
	// No brokers disables event publishing to kafka.
	Brokers []string
	Topic   string
}

type LedgerConfig struct {
	Currency      string
	Timezone      string
	ActivityLimit int
	RetryAttempts int
	RetryBase     time.Duration
	RetryMax      time.Duration
}

// Location resolves Timezone as an IANA zone, falling back to UTC. "Local" is
// mapped to UTC too: the zone name is handed to postgres AT TIME ZONE, which
// has no such zone.
func (l LedgerConfig) Location() *time.Location {
	if strings.EqualFold(l.Timezone, "local") {
		return time.UTC
	}
	if loc, err := time.LoadLocation(l.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "stockledger"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("DB_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			LockTTL:     time.Duration(getEnvInt("REDIS_LOCK_TTL_MS", 5000)) * time.Millisecond,
			LockRetries: getEnvInt("REDIS_LOCK_RETRIES", 3),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_LEDGER", "ledger.events"),
		},
		Ledger: LedgerConfig{
			Currency:      strings.ToUpper(getEnv("LEDGER_CURRENCY", "USD")),
			Timezone:      getEnv("LEDGER_TIMEZONE", "UTC"),
			ActivityLimit: getEnvInt("ACTIVITY_LIMIT", 20),
			RetryAttempts: getEnvInt("TX_RETRY_ATTEMPTS", 3),
			RetryBase:     time.Duration(getEnvInt("TX_RETRY_BASE_MS", 50)) * time.Millisecond,
			RetryMax:      time.Duration(getEnvInt("TX_RETRY_MAX_MS", 1000)) * time.Millisecond,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return fallback
}
