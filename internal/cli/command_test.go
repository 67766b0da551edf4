package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "doctrans [file]" {
		t.Errorf("Expected Use to be 'doctrans [file]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Terminology-aware document translator") {
		t.Errorf("Expected Short description to contain 'Terminology-aware document translator'")
	}

	// Test that flags are set up
	flagTests := []struct {
		name     string
		expected bool
	}{
		{"config", true},
		{"source", true},
		{"target", true},
		{"output-format", true},
		{"prompt", true},
		{"keep-translated", true},
		{"dry-run", true},
		{"verbose", true},
		{"list-models", true},
		{"terminology", true},
		{"terminology-db", true},
		{"import-terms", true},
		{"no-terminology", true},
		{"direct-terms", true},
		{"backend", true},
		{"fallback-backend", true},
		{"openai-model", true},
		{"gemini-model", true},
		{"temperature", true},
		{"retry-count", true},
		{"retry-delay", true},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.name == "config" {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil && tt.expected {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	sourceFlag := cmd.Flags().Lookup("source")
	if sourceFlag == nil {
		t.Fatal("source flag not found")
	}
	if sourceFlag.DefValue != "zh" {
		t.Errorf("Expected default source to be zh, got %s", sourceFlag.DefValue)
	}

	formatFlag := cmd.Flags().Lookup("output-format")
	if formatFlag == nil {
		t.Fatal("output-format flag not found")
	}
	if formatFlag.DefValue != "bilingual" {
		t.Errorf("Expected default output-format to be bilingual, got %s", formatFlag.DefValue)
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	InitConfig("")

	// Test environment variable prefix
	os.Setenv("DOCTRANS_TEST_VAR", "test-value")
	defer os.Unsetenv("DOCTRANS_TEST_VAR")

	if viper.GetString("test_var") != "test-value" {
		t.Error("Environment variable not properly loaded")
	}
}

func TestGetOpenAIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{
			name:      "from environment",
			envKey:    "env-test-key",
			configKey: "config-test-key",
			expected:  "env-test-key",
		},
		{
			name:      "from config when no env",
			envKey:    "",
			configKey: "config-test-key",
			expected:  "config-test-key",
		},
		{
			name:      "empty when neither set",
			envKey:    "",
			configKey: "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper
			viper.Reset()

			// Set up environment
			if tt.envKey != "" {
				os.Setenv("OPENAI_API_KEY", tt.envKey)
				defer os.Unsetenv("OPENAI_API_KEY")
			} else {
				os.Unsetenv("OPENAI_API_KEY")
			}

			// Set up config
			if tt.configKey != "" {
				viper.Set("backend.openai_key", tt.configKey)
			}

			got := GetOpenAIKey()
			if got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetGeminiKey(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	os.Setenv("GEMINI_API_KEY", "env-gemini-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	if got := GetGeminiKey(); got != "env-gemini-key" {
		t.Errorf("GetGeminiKey() = %v, want env-gemini-key", got)
	}

	os.Unsetenv("GEMINI_API_KEY")
	viper.Set("backend.gemini_key", "config-gemini-key")
	if got := GetGeminiKey(); got != "config-gemini-key" {
		t.Errorf("GetGeminiKey() = %v, want config-gemini-key", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	// Reset viper
	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("target", "ja")
	cmd.Flags().Set("output-format", "translation-only")
	cmd.Flags().Set("openai-model", "gpt-4o")

	bindFlagsToViper(cmd)

	// Test that values are bound
	if viper.GetString("translate.target") != "ja" {
		t.Errorf("Expected translate.target to be ja, got %s", viper.GetString("translate.target"))
	}

	if viper.GetString("translate.output_format") != "translation-only" {
		t.Errorf("Expected translate.output_format to be translation-only, got %s", viper.GetString("translate.output_format"))
	}

	if viper.GetString("backend.openai_model") != "gpt-4o" {
		t.Errorf("Expected backend.openai_model to be gpt-4o, got %s", viper.GetString("backend.openai_model"))
	}
}
