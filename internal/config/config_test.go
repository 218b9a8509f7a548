package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "LEEDSBOT_TEST_STR_1", "gemini", "openai", "gemini"},
		{"uses default when empty", "LEEDSBOT_TEST_STR_2", "", "openai", "openai"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "LEEDSBOT_TEST_INT_1", "12", 30, 12},
		{"uses default for empty", "LEEDSBOT_TEST_INT_2", "", 30, 30},
		{"uses default for non-numeric", "LEEDSBOT_TEST_INT_3", "lots", 30, 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal bool
		expected   bool
	}{
		{"parses true", "LEEDSBOT_TEST_BOOL_1", "true", false, true},
		{"parses 0", "LEEDSBOT_TEST_BOOL_2", "0", true, false},
		{"uses default for garbage", "LEEDSBOT_TEST_BOOL_3", "maybe", true, true},
		{"uses default for empty", "LEEDSBOT_TEST_BOOL_4", "", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsBoolOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("LEEDSBOT_MISSING_REQUIRED")
	mustGetEnv("LEEDSBOT_MISSING_REQUIRED")
}

func TestLoad_ModelKeysOptional(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leedsbot")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPENAI_API_KEY", "  ")
	t.Setenv("LLM_PROVIDER", "OpenAI")

	cfg := Load()
	if cfg.OpenAIAPIKey != "" {
		t.Errorf("Expected blank key to be trimmed to empty, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.LLMProvider != "openai" {
		t.Errorf("Expected provider to be lower-cased, got %q", cfg.LLMProvider)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Expected default model gpt-4o-mini, got %q", cfg.OpenAIModel)
	}
	if cfg.PersistAdaptedLevel {
		t.Error("Expected level write-back to be off by default")
	}
}

func TestLoadForTools_AllowsMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", " key ")
	t.Setenv("LLM_TIMEOUT_SECONDS", "12")

	cfg := LoadForTools()

	if cfg.DatabaseURL != "" || cfg.JWTSecret != "" {
		t.Errorf("Expected required values to stay empty")
	}
	llmCfg := cfg.LLM()
	if llmCfg.Provider != "gemini" {
		t.Errorf("Expected lower-cased provider, got %q", llmCfg.Provider)
	}
	if llmCfg.Gemini.APIKey != "key" {
		t.Errorf("Expected trimmed key, got %q", llmCfg.Gemini.APIKey)
	}
	if cfg.LLMTimeout().Seconds() != 12 {
		t.Errorf("Expected 12s timeout, got %v", cfg.LLMTimeout())
	}
}

func TestLoad_PanicsWithoutDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic for missing DATABASE_URL")
		}
	}()
	Load()
}
