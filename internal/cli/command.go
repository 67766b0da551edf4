package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/polyglotkit/doctrans/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctrans [file]",
		Short: "Terminology-aware document translator",
		Long: `doctrans translates plain-text documents with an LLM backend while
protecting approved terminology behind placeholder tokens.

Units that need no translation (numbers, URLs, already-bilingual pairs)
are skipped before any backend call is made.

Examples:
  doctrans report.txt                          # Chinese to English, bilingual output
  doctrans --target ja report.txt              # translate to Japanese
  doctrans --terminology terms.json report.txt # protect approved terms
  doctrans --dry-run report.txt                # show skip decisions only`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.doctrans.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.SourceLang, "source", "s", flags.SourceLang, "Source language code (zh, en, ja, ko, ru)")
	cmd.Flags().StringVarP(&flags.TargetLang, "target", "t", flags.TargetLang, "Target language code (zh, en, ja, ko, ru)")
	cmd.Flags().StringVarP(&flags.OutputFormat, "output-format", "f", flags.OutputFormat, "Output format: bilingual or translation-only")
	cmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Extra instruction appended to every translation prompt")
	cmd.Flags().BoolVar(&flags.KeepTranslated, "keep-translated", false, "Translate units even when they already look bilingual")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Print skip decisions without calling any backend")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Terminology flags
	cmd.Flags().StringVar(&flags.Terminology, "terminology", "", "Terminology library JSON file")
	cmd.Flags().StringVar(&flags.TerminologyDB, "terminology-db", "", "Terminology sqlite database")
	cmd.Flags().StringVar(&flags.ImportTerms, "import-terms", "", "Import a 'source = target' pair file into --terminology-db and exit")
	cmd.Flags().BoolVar(&flags.NoTerminology, "no-terminology", false, "Disable terminology protection")
	cmd.Flags().BoolVar(&flags.DirectTerms, "direct-terms", false, "Replace terms directly instead of using placeholders")

	// Backend flags
	cmd.Flags().StringVar(&flags.Backend, "backend", flags.Backend, "Translation backend: openai or gemini")
	cmd.Flags().StringVar(&flags.FallbackBackend, "fallback-backend", "", "Backend to switch to after repeated failures")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for translation")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for translation")
	cmd.Flags().Float64Var(&flags.Temperature, "temperature", flags.Temperature, "Sampling temperature for the backend")
	cmd.Flags().IntVar(&flags.RetryCount, "retry-count", flags.RetryCount, "Retries per unit after the first attempt")
	cmd.Flags().Float64Var(&flags.RetryDelay, "retry-delay", flags.RetryDelay, "Initial retry delay in seconds (grows exponentially)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translate.source", cmd.Flags().Lookup("source"))
	viper.BindPFlag("translate.target", cmd.Flags().Lookup("target"))
	viper.BindPFlag("translate.output_format", cmd.Flags().Lookup("output-format"))
	viper.BindPFlag("translate.prompt", cmd.Flags().Lookup("prompt"))
	viper.BindPFlag("translate.retry_count", cmd.Flags().Lookup("retry-count"))
	viper.BindPFlag("translate.retry_delay", cmd.Flags().Lookup("retry-delay"))
	viper.BindPFlag("translate.no_terminology", cmd.Flags().Lookup("no-terminology"))
	viper.BindPFlag("translate.direct_terms", cmd.Flags().Lookup("direct-terms"))
	viper.BindPFlag("translate.keep_translated", cmd.Flags().Lookup("keep-translated"))
	viper.BindPFlag("terminology.file", cmd.Flags().Lookup("terminology"))
	viper.BindPFlag("terminology.database", cmd.Flags().Lookup("terminology-db"))
	viper.BindPFlag("backend.provider", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("backend.fallback", cmd.Flags().Lookup("fallback-backend"))
	viper.BindPFlag("backend.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("backend.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("backend.temperature", cmd.Flags().Lookup("temperature"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".doctrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".doctrans")
	}

	// Environment variables
	viper.SetEnvPrefix("DOCTRANS")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("backend.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("backend.gemini_key")
}
