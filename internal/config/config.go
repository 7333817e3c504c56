package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StorageConfig points at the object store root that receives patient
// document uploads. Buckets map to directories under BasePath.
type StorageConfig struct {
	BasePath        string
	IngestionBucket string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertEmail string
}

type AIConfig struct {
	EmbeddingProvider string // "openai", "gemini" or "ollama"
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	GoogleGeminiKey   string
	OllamaBaseURL     string
	OllamaModel       string
}

type IngestConfig struct {
	EmbedJobTopic string
	SweepInterval time.Duration
}

// Validate reports missing parameters the service cannot start without.
// Called once at bootstrap; a failure here aborts the process.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database host, user and dbname are required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("config: database port is required")
	}
	if _, err := strconv.Atoi(c.Database.Port); err != nil {
		return fmt.Errorf("config: database port %q is not numeric", c.Database.Port)
	}
	if c.Storage.BasePath == "" {
		return fmt.Errorf("config: storage base path is required")
	}
	return nil
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			BasePath:        getEnv("STORAGE_BASE_PATH", "./storage"),
			IngestionBucket: getEnv("INGESTION_BUCKET", "patient-documents"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "PatientSim"),
			AlertEmail: getEnv("INGESTION_ALERT_EMAIL", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			GoogleGeminiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Ingest: IngestConfig{
			EmbedJobTopic: getEnv("EMBED_PATIENT_FILE_TOPIC_NAME", "EMBED_PATIENT_FILE"),
			SweepInterval: getEnvAsDuration("INGESTION_SWEEP_INTERVAL", 15*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
