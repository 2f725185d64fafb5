package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	// PostgreSQL
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBURL      string
	DBCACert   string
	DBSSLMode  string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
	KafkaCACert  string
	KafkaCert    string // optional client cert
	KafkaKey     string // optional client key

	// Plant gateway websocket feed (optional second source)
	FeedURL   string
	FeedToken string

	// Dashboard fan-out
	WSAuthSecret string
	HTTPAddr     string
}

func LoadConfig() *Config {
	// Load .env if exists
	_ = godotenv.Load() // ignore error, fallback to env vars

	cfg := &Config{
		DBHost:     os.Getenv("TELEMETRY_DB_HOST"),
		DBPort:     os.Getenv("TELEMETRY_DB_PORT"),
		DBUser:     os.Getenv("TELEMETRY_DB_USER"),
		DBPassword: os.Getenv("TELEMETRY_DB_PASSWORD"),
		DBName:     os.Getenv("TELEMETRY_DB_NAME"),
		DBURL:      os.Getenv("TELEMETRY_DB_URL"),
		DBCACert:   os.Getenv("TELEMETRY_DB_CA_CERT"),
		DBSSLMode:  os.Getenv("TELEMETRY_DB_SSLMODE"),

		KafkaBrokers: strings.Split(os.Getenv("KAFKA_BROKER"), ","),
		KafkaTopic:   os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID: os.Getenv("KAFKA_GROUP_ID"),
		KafkaCACert:  os.Getenv("KAFKA_CA_CERT"),
		KafkaCert:    os.Getenv("KAFKA_CLIENT_CERT"),
		KafkaKey:     os.Getenv("KAFKA_CLIENT_KEY"),

		FeedURL:   os.Getenv("GATEWAY_FEED_URL"),
		FeedToken: os.Getenv("GATEWAY_FEED_TOKEN"),

		WSAuthSecret: os.Getenv("WS_AUTH_SECRET"),
		HTTPAddr:     os.Getenv("HTTP_ADDR"),
	}

	if cfg.KafkaGroupID == "" {
		cfg.KafkaGroupID = "unify-consumer"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "verify-full"
	}

	// Build DB URL if not provided
	if cfg.DBURL == "" {
		cfg.DBURL = fmt.Sprintf(
			"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
		)
	}

	return cfg
}
