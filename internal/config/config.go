package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Shopify   ShopifyConfig
	Generator GeneratorConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type ShopifyConfig struct {
	ShopDomain        string
	AccessToken       string
	APIVersion        string
	APIKey            string
	APISecret         string
	RequestsPerSecond float64
}

type GeneratorConfig struct {
	Backend      string // mock or gemini
	MockLatency  time.Duration
	Timeout      time.Duration
	GeminiAPIKey string
	GeminiModel  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

// Enabled reports whether the history store is configured
func (c DatabaseConfig) Enabled() bool {
	return c.Database != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether rate limiting has a backing store
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	// Values already in the environment win over .env
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	viper.SetDefault("SHOPIFY_REQUESTS_PER_SECOND", 2.0)
	viper.SetDefault("GENERATOR_BACKEND", "mock")
	viper.SetDefault("GENERATOR_LATENCY", "1s")
	viper.SetDefault("GENERATOR_TIMEOUT", "10s")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "https://admin.shopify.com")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("SERVER_LOG_LEVEL"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:        viper.GetString("SHOPIFY_SHOP_DOMAIN"),
			AccessToken:       viper.GetString("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:        viper.GetString("SHOPIFY_API_VERSION"),
			APIKey:            viper.GetString("SHOPIFY_API_KEY"),
			APISecret:         viper.GetString("SHOPIFY_API_SECRET"),
			RequestsPerSecond: viper.GetFloat64("SHOPIFY_REQUESTS_PER_SECOND"),
		},
		Generator: GeneratorConfig{
			Backend:      viper.GetString("GENERATOR_BACKEND"),
			MockLatency:  viper.GetDuration("GENERATOR_LATENCY"),
			Timeout:      viper.GetDuration("GENERATOR_TIMEOUT"),
			GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
			GeminiModel:  viper.GetString("GEMINI_MODEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
