package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"leedsbot-backend/internal/llm"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL   string
	MigrationsDir string

	// Redis (optional)
	RedisURL string

	// JWT
	JWTSecret string

	// LLM
	LLMProvider          string
	LLMTimeoutSeconds    int
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIBaseURL        string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	AnthropicAPIKey      string
	AnthropicModel       string

	// Limits
	RateLimitPerMinute int
	MaxUploadMB        int
	ExtractWorkers     int

	// Behaviour
	PersistAdaptedLevel bool

	// Frontend
	FrontendURL string
}

func Load() *Config {
	return load(mustGetEnv)
}

// LoadForTools reads the same variables as Load but leaves required ones
// empty instead of panicking. Operator commands check what they need.
func LoadForTools() *Config {
	return load(os.Getenv)
}

func load(required func(string) string) *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		DatabaseURL:          required("DATABASE_URL"),
		MigrationsDir:        getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		JWTSecret:            required("JWT_SECRET"),
		LLMProvider:          strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "openai")),
		LLMTimeoutSeconds:    getEnvAsIntOrDefault("LLM_TIMEOUT_SECONDS", 30),
		OpenAIAPIKey:         strings.TrimSpace(getEnvOrDefault("OPENAI_API_KEY", "")),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", ""),
		GeminiAPIKey:         strings.TrimSpace(getEnvOrDefault("GEMINI_API_KEY", "")),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		AnthropicAPIKey:      strings.TrimSpace(getEnvOrDefault("ANTHROPIC_API_KEY", "")),
		AnthropicModel:       getEnvOrDefault("ANTHROPIC_MODEL", "claude-haiku"),
		RateLimitPerMinute:   getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		MaxUploadMB:          getEnvAsIntOrDefault("MAX_UPLOAD_MB", 20),
		ExtractWorkers:       getEnvAsIntOrDefault("EXTRACT_WORKERS", 4),
		PersistAdaptedLevel:  getEnvAsBoolOrDefault("PERSIST_ADAPTED_LEVEL", false),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

// LLM maps the model settings onto the provider factory config.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider: c.LLMProvider,
		OpenAI: llm.OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			Model:   c.OpenAIModel,
			BaseURL: c.OpenAIBaseURL,
		},
		Gemini: llm.GeminiConfig{
			APIKey:         c.GeminiAPIKey,
			Model:          c.GeminiModel,
			ConcurrentReqs: c.GeminiConcurrentReqs,
		},
		Anthropic: llm.AnthropicConfig{
			APIKey: c.AnthropicAPIKey,
			Model:  c.AnthropicModel,
		},
	}
}

// LLMTimeout is the per-call model timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
