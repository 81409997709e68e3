package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Maps   MapsConfig
	Gemini GeminiConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type MapsConfig struct {
	APIKey  string
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("CORS_ORIGIN", "*")),
		},
		Maps: MapsConfig{
			APIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
			Timeout: parseDuration(getEnv("MAPS_HTTP_TIMEOUT", "10s")),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: parseDuration(getEnv("GEMINI_HTTP_TIMEOUT", "30s")),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 10s", s)
		return 10 * time.Second
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
