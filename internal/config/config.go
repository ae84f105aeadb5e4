package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string

	// Collection names
	ImageInputCollection string // image catalog, read-only
	OutputCollection     string // vision boards, append-only

	// Gemini / GenAI configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Matching configuration
	MatchLimit int // max documents returned per board

	// Background catalog refresh interval (minutes)
	CatalogRefreshMinutes int

	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8000"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017/data"),
		DatabaseName: getEnv("DATABASE_NAME", ""),

		ImageInputCollection: getEnv("IMAGE_INPUT_COLLECTION", "image_description"),
		OutputCollection:     getEnv("OUTPUT_COLLECTION", "weddingverse_output"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		MatchLimit:            getIntEnv("MATCH_LIMIT", 10),
		CatalogRefreshMinutes: getIntEnv("CATALOG_REFRESH_MINUTES", 5),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
