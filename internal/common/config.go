package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	AI      AIConfig
	Extract ExtractConfig
	Server  ServerConfig
	Batch   BatchConfig
	Log     LogConfig
}

// AIConfig holds generative-AI backend configuration
type AIConfig struct {
	Provider       string // "gemini" | "openai"
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	Temperature    float32
	Timeout        time.Duration
	ThinkingBudget int
	RateLimit      float64 // requests per second, 0 disables limiting
	RateBurst      int
	MaxRetries     int
}

// ExtractConfig holds text-extraction configuration
type ExtractConfig struct {
	PDFBackend    string // "native" | "pdftotext"
	Pdftotext     string
	MaxDocumentMB int
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// BatchConfig holds worker pool configuration
type BatchConfig struct {
	Workers         int
	AnalysisTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// LoadDotEnv loads a .env file into the process environment when one exists.
// Variables that are already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:       strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
			GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiBaseURL:  getEnv("GEMINI_BASE_URL", ""),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
			Temperature:    getEnvAsFloat32("AI_TEMPERATURE", 0.2),
			Timeout:        getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
			ThinkingBudget: getEnvAsInt("AI_THINKING_BUDGET", 0),
			RateLimit:      getEnvAsFloat64("AI_RATE_LIMIT", 2),
			RateBurst:      getEnvAsInt("AI_RATE_BURST", 4),
			MaxRetries:     getEnvAsInt("AI_MAX_RETRIES", 2),
		},
		Extract: ExtractConfig{
			PDFBackend:    strings.ToLower(getEnv("PDF_BACKEND", "native")),
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			MaxDocumentMB: getEnvAsInt("MAX_DOCUMENT_MB", 25),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		Batch: BatchConfig{
			Workers:         getEnvAsInt("WORKERS", 4),
			AnalysisTimeout: getEnvAsDuration("ANALYSIS_TIMEOUT", 3*time.Minute),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}
}

// APIKey returns the key for the configured provider.
func (c AIConfig) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return NewAppError("CONFIG_ERROR", "AI_PROVIDER must be gemini or openai", ErrInvalidInput)
	}
	if c.AI.APIKey() == "" {
		key := "GEMINI_API_KEY"
		if c.AI.Provider == "openai" {
			key = "OPENAI_API_KEY"
		}
		return NewAppError("CONFIG_ERROR", key+" is required", ErrMissingCredentials)
	}
	switch c.Extract.PDFBackend {
	case "native", "pdftotext":
	default:
		return NewAppError("CONFIG_ERROR", "PDF_BACKEND must be native or pdftotext", ErrInvalidInput)
	}
	if c.Extract.MaxDocumentMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_DOCUMENT_MB must be positive", ErrInvalidInput)
	}
	return nil
}
