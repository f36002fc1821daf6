package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string `yaml:"addr"`
	AppOrigin string `yaml:"app_origin"` // base URL used in share / invite links

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`

	JWTSecret string `yaml:"jwt_secret"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`
	MinIOPublicURL string `yaml:"minio_public_url"`

	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiBaseURL string `yaml:"gemini_base_url"`
	GeminiModel   string `yaml:"gemini_model"`

	ResendAPIKey string `yaml:"resend_api_key"`
	ResendFrom   string `yaml:"resend_from"`
}

// LoadConfig reads an optional config.yaml (path overridable via CONFIG_FILE),
// then lets environment variables override every field. A missing .env file
// is not an error.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          ":8000",
		MinIOBucket:   "chat-files",
		GeminiBaseURL: "https://generativelanguage.googleapis.com/v1beta",
		GeminiModel:   "gemini-2.5-flash",
		ResendFrom:    "Nega <onboarding@resend.dev>",
	}

	path := getEnv("CONFIG_FILE", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &cfg)
	}

	overrideEnv(&cfg.Addr, "ADDR")
	overrideEnv(&cfg.AppOrigin, "APP_ORIGIN")
	overrideEnv(&cfg.DBUser, "DB_USER")
	overrideEnv(&cfg.DBPassword, "DB_PASSWORD")
	overrideEnv(&cfg.DBHost, "DB_HOST")
	overrideEnv(&cfg.DBPort, "DB_PORT")
	overrideEnv(&cfg.DBName, "DB_NAME")
	overrideEnv(&cfg.JWTSecret, "JWT_SECRET")
	overrideEnv(&cfg.RedisAddr, "REDIS_ADDR")
	overrideEnv(&cfg.RedisPassword, "REDIS_PASSWORD")
	overrideEnv(&cfg.MinIOEndpoint, "MINIO_ENDPOINT")
	overrideEnv(&cfg.MinIOAccessKey, "MINIO_ACCESS_KEY")
	overrideEnv(&cfg.MinIOSecretKey, "MINIO_SECRET_KEY")
	overrideEnv(&cfg.MinIOBucket, "MINIO_BUCKET")
	overrideEnv(&cfg.MinIOPublicURL, "MINIO_PUBLIC_URL")
	overrideEnv(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	overrideEnv(&cfg.GeminiBaseURL, "GEMINI_BASE_URL")
	overrideEnv(&cfg.GeminiModel, "GEMINI_MODEL")
	overrideEnv(&cfg.ResendAPIKey, "RESEND_API_KEY")
	overrideEnv(&cfg.ResendFrom, "RESEND_FROM")

	return cfg
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
