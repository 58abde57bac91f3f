package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	DB       PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Upload   UploadConfig
	AI       AIConfig
	Checkout CheckoutConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	TTLHours int
}

type KafkaConfig struct {
	Brokers       []string
	OrderTopic    string
	ConsumerGroup string
}

type UploadConfig struct {
	Dir        string
	MaxSizeMB  int
	PublicPath string
}

type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type CheckoutConfig struct {
	// ShippingFee là phí ship cố định cho mỗi sub-order (VND).
	ShippingFee int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "smartbook"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("HTTP_PORT", 8080),
		},
		DB: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "smartbook"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TTLHours: getEnvAsInt("JWT_TTL_HOURS", 72),
		},
		Kafka: KafkaConfig{
			Brokers:       splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			OrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "orders.placed"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "smartbook-notifier"),
		},
		Upload: UploadConfig{
			Dir:        getEnv("UPLOAD_DIR", "./uploads"),
			MaxSizeMB:  getEnvAsInt("UPLOAD_MAX_SIZE_MB", 5),
			PublicPath: getEnv("UPLOAD_PUBLIC_PATH", "/static"),
		},
		AI: AIConfig{
			BaseURL: getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("AI_API_KEY", ""),
			Model:   getEnv("AI_MODEL", "gpt-4o-mini"),
		},
		Checkout: CheckoutConfig{
			ShippingFee: int64(getEnvAsInt("CHECKOUT_SHIPPING_FEE", 30000)),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
		return fmt.Errorf("database config is incomplete")
	}
	if c.JWT.Secret == "" && c.App.Env != "local" {
		return fmt.Errorf("JWT_SECRET is required outside local env")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	if c.Checkout.ShippingFee < 0 {
		return fmt.Errorf("CHECKOUT_SHIPPING_FEE must not be negative")
	}
	// AI APIKey optional: chat endpoint trả lỗi rõ ràng khi chưa cấu hình
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
