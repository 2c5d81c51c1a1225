package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server      ServerConfig
	AI          AIConfig
	Speech      SpeechConfig
	Identity    IdentityConfig
	Media       MediaConfig
	Postgres    PostgresConfig
	LogLevel    string
	Environment string
}

type ServerConfig struct {
	Port           string
	BaseURL        string
	AllowedOrigins []string
}

// AIConfig - extração estruturada via Gemini.
//
// Variáveis de ambiente:
//   - AI_API_KEY: chave da API Gemini
//   - AI_MODEL (default: gemini-2.0-flash)
//   - AI_PIPELINE_MODE: single_call | two_call (default: single_call)
//   - AI_CONFIDENCE_THRESHOLD: limiar de confiança 0-100 (default: 80)
type AIConfig struct {
	APIKey              string
	Model               string
	PipelineMode        string
	ConfidenceThreshold int
}

type SpeechConfig struct {
	LanguageCode string
}

type IdentityConfig struct {
	ProjectID   string
	WebAPIKey   string
	ClientEmail string
	PrivateKey  string
}

type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

const (
	PipelineModeSingleCall = "single_call"
	PipelineModeTwoCall    = "two_call"

	defaultConfidenceThreshold = 80
)

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "10000"),
			BaseURL:        getenv("BASE_URL", "http://localhost:10000"),
			AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		},
		AI: AIConfig{
			APIKey:              os.Getenv("AI_API_KEY"),
			Model:               getenv("AI_MODEL", "gemini-2.0-flash"),
			PipelineMode:        getenv("AI_PIPELINE_MODE", PipelineModeSingleCall),
			ConfidenceThreshold: getenvInt("AI_CONFIDENCE_THRESHOLD", defaultConfidenceThreshold),
		},
		Speech: SpeechConfig{
			LanguageCode: getenv("SPEECH_LANGUAGE", "pt-BR"),
		},
		Identity: IdentityConfig{
			ProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
			WebAPIKey:   os.Getenv("FIREBASE_WEB_API_KEY"),
			ClientEmail: os.Getenv("FIREBASE_CLIENT_EMAIL"),
			PrivateKey:  strings.ReplaceAll(os.Getenv("FIREBASE_PRIVATE_KEY"), `\n`, "\n"),
		},
		Media: MediaConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Environment: getenv("ENVIRONMENT", "local"),
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 || parsed > 100 {
		return fallback
	}
	return parsed
}
