package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort        string
	UploadDir         string
	CharactersPath    string
	PromptsPath       string
	AdminPasswordPath string

	// Job store. Sqlite by default; set DATABASE_TYPE/DATABASE_URL for
	// postgres or mysql.
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	UploadMaxSize   int64
	DownloadTimeout time.Duration
	AIBaseURL       string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		UploadDir:         uploadDir,
		CharactersPath:    getEnv("CHARACTERS_PATH", uploadDir+"/characters.json"),
		PromptsPath:       getEnv("PROMPTS_PATH", "./suggested_prompts.json"),
		AdminPasswordPath: getEnv("ADMIN_PASSWORD_PATH", "./password_admin.txt"),
		DatabaseType:      getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./imagequest.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		UploadMaxSize:     getEnvInt64("UPLOAD_MAX_SIZE", 10*1024*1024),
		DownloadTimeout:   60 * time.Second,
		AIBaseURL:         getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 reads an integer environment variable or returns a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
