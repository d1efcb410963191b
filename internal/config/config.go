package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	MigrationsDir string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers     []string
	OrderStatusTopic string

	JWTSecret string

	ShippingFee float64
	TaxRate     float64

	RequestTimeout time.Duration
}

// Load reads configuration from the environment, picking up a local .env
// file when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	shippingFee, err := strconv.ParseFloat(getEnv("SHIPPING_FEE", "15"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_FEE: %w", err)
	}

	taxRate, err := strconv.ParseFloat(getEnv("TAX_RATE", "0.07"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}

	timeoutMS, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT_MS", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_MS: %w", err)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           dbPort,
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "storefront"),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "./migrations"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:     splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		OrderStatusTopic: getEnv("ORDER_STATUS_TOPIC", "order-status-updates"),
		JWTSecret:        secret,
		ShippingFee:      shippingFee,
		TaxRate:          taxRate,
		RequestTimeout:   time.Duration(timeoutMS) * time.Millisecond,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
