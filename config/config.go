package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
)

type Config struct {
	Env    string
	Server ServerConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Log    LogConfig
	Kafka  KafkaConfig
	Bolt   BoltConfig
	Market MarketConfig
}

type ServerConfig struct {
	HTTPPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

type KafkaConfig struct {
	Brokers              []string
	ProducerRetryMax     int
	ProducerRequiredAcks int
	Enabled              bool
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type LogConfig struct {
	Level    string
	Mode     string
	Encoding string
}

type BoltConfig struct {
	Path string
}

// MarketConfig carries the marketplace parameters. Monetary amounts are in
// wei; the defaults match a 0.01 ETH commission and a 20% resale markup cap.
type MarketConfig struct {
	OrganizerAddress string
	CommissionFee    int64
	MarkupCapBps     int64
	ReleaseWindow    time.Duration
	RedemptionBonus  uint64
	VoteCap          uint64
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			HTTPPort:     getEnvAsInt("SERVER_HTTP_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "jwt-secret"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 2*time.Hour),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Mode:     getEnv("LOG_MODE", "development"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Kafka: KafkaConfig{
			Brokers:              getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ProducerRetryMax:     getEnvAsInt("KAFKA_PRODUCER_RETRY_MAX", 3),
			ProducerRequiredAcks: getEnvAsInt("KAFKA_PRODUCER_REQUIRED_ACKS", 1),
			Enabled:              getEnvAsBool("KAFKA_ENABLED", true),
		},
		Bolt: BoltConfig{
			Path: getEnv("BOLT_JOURNAL_PATH", "data/events.db"),
		},
		Market: MarketConfig{
			OrganizerAddress: getEnv("MARKET_ORGANIZER_ADDRESS", ""),
			CommissionFee:    getEnvAsInt64("MARKET_COMMISSION_FEE_WEI", 10_000_000_000_000_000),
			MarkupCapBps:     getEnvAsInt64("MARKET_MARKUP_CAP_BPS", 2000),
			ReleaseWindow:    getEnvAsDuration("MARKET_RELEASE_WINDOW", 7*24*time.Hour),
			RedemptionBonus:  uint64(getEnvAsInt("MARKET_REDEMPTION_BONUS", 10)),
			VoteCap:          uint64(getEnvAsInt("MARKET_VOTE_CAP", 100)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.HTTPPort)
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Env == "production" && (c.JWT.Secret == "" || c.JWT.Secret == "jwt-secret") {
		return fmt.Errorf("JWT secret must be set in production")
	}

	if c.Market.OrganizerAddress == "" {
		return fmt.Errorf("organizer address is required")
	}

	if c.Market.CommissionFee < 0 {
		return fmt.Errorf("commission fee must not be negative")
	}

	if c.Market.MarkupCapBps < 0 {
		return fmt.Errorf("markup cap must not be negative")
	}

	return nil
}

// Organizer returns the configured organizer as a domain address.
func (c *Config) Organizer() domain.Address {
	return domain.Address(c.Market.OrganizerAddress)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	// Split by comma
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
