package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	JWTSecret            string
	JWTExpiry            time.Duration
	SessionRefreshWindow time.Duration

	OriginURL     string
	StorefrontURL string
	PublicAPIURL  string

	PayUKey     string
	PayUSalt    string
	PayUSaltV2  string
	PayUBaseURL string

	RevalidateSecret string

	ShippingCacheTTL       time.Duration
	ShippingCacheBackend   string
	BackendTimeout         time.Duration
	DefaultPaymentProvider string
	GiftWrapVariantID      string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	KafkaBrokers     []string
	KafkaOrdersTopic string
}

var AppConfig *Config

func LoadConfig() *Config {
	if os.Getenv("VERCEL") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using system environment variables")
		}
	}

	AppConfig = &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "toy_store"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "database/migration"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		JWTExpiry:            getDuration("JWT_EXPIRY", 24*time.Hour),
		SessionRefreshWindow: getDuration("SESSION_REFRESH_WINDOW", 2*time.Hour),

		OriginURL:     os.Getenv("ORIGIN_URL"),
		StorefrontURL: getEnv("STOREFRONT_URL", "http://localhost:3000"),
		PublicAPIURL:  os.Getenv("PUBLIC_API_URL"),

		PayUKey:     os.Getenv("PAYU_KEY"),
		PayUSalt:    os.Getenv("PAYU_SALT"),
		PayUSaltV2:  os.Getenv("PAYU_SALT_V2"),
		PayUBaseURL: getEnv("PAYU_BASE_URL", "https://test.payu.in/_payment"),

		RevalidateSecret: os.Getenv("REVALIDATE_SECRET"),

		ShippingCacheTTL:       getDuration("SHIPPING_CACHE_TTL", 15*time.Second),
		ShippingCacheBackend:   getEnv("SHIPPING_CACHE_BACKEND", "memory"),
		BackendTimeout:         getDuration("BACKEND_TIMEOUT", 10*time.Second),
		DefaultPaymentProvider: getEnv("DEFAULT_PAYMENT_PROVIDER", "pp_system_default"),
		GiftWrapVariantID:      getEnv("GIFT_WRAP_VARIANT_ID", "var_gift_wrap"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnv("SMTP_FROM", "orders@toystore.local"),

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "orders.paid"),
	}

	if AppConfig.PublicAPIURL == "" {
		AppConfig.PublicAPIURL = "http://localhost:" + AppConfig.Port
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid duration %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
