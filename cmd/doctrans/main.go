package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/polyglotkit/doctrans/internal/backend"
	"github.com/polyglotkit/doctrans/internal/cli"
	"github.com/polyglotkit/doctrans/internal/document"
	"github.com/polyglotkit/doctrans/internal/gate"
	"github.com/polyglotkit/doctrans/internal/language"
	"github.com/polyglotkit/doctrans/internal/models"
	"github.com/polyglotkit/doctrans/internal/orchestrator"
	"github.com/polyglotkit/doctrans/internal/terminology"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	logger, err := newLogger(flags.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	// Handle --import-terms flag
	if flags.ImportTerms != "" {
		return importTerms(flags)
	}

	if len(args) == 0 {
		return fmt.Errorf("document path required (see --help)")
	}
	docPath := args[0]

	// Handle --dry-run flag
	if flags.DryRun {
		return dryRun(docPath, flags, logger)
	}

	table, err := loadTerminology(flags)
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(flags, logger)
	if err != nil {
		return err
	}

	opts := document.Options{
		SourceLang:      flags.SourceLang,
		TargetLang:      flags.TargetLang,
		UseTerminology:  !flags.NoTerminology,
		PreprocessTerms: flags.DirectTerms,
		SkipTranslated:  !flags.KeepTranslated,
		OutputFormat:    flags.OutputFormat,
		ExtraPrompt:     flags.Prompt,
	}

	proc := document.NewProcessor(opts, table, orch, logger)
	proc.SetProgressCallback(func(fraction float64, message string) {
		fmt.Printf("[%3.0f%%] %s\n", fraction*100, message)
	})

	// Allow clean cancellation between units
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outPath, err := proc.Process(ctx, docPath)
	if err != nil {
		return err
	}

	if issues := proc.Issues(); len(issues) > 0 {
		fmt.Printf("\n=== Review Needed ===\n")
		for _, issue := range issues {
			fmt.Printf("  unit %d: %s\n", issue.Unit+1, issue.Reason)
		}
		fmt.Printf("=====================\n")
	}

	fmt.Printf("\nDone! Translation saved to: %s\n", outPath)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// importTerms loads a "source = target" pair file into the terminology
// database under the target language's name.
func importTerms(flags *cli.Flags) error {
	if flags.TerminologyDB == "" {
		return fmt.Errorf("--import-terms requires --terminology-db")
	}

	table, err := terminology.ReadPairFile(flags.ImportTerms)
	if err != nil {
		return err
	}

	store, err := terminology.OpenStore(flags.TerminologyDB)
	if err != nil {
		return err
	}
	defer store.Close()

	languageName := language.Name(flags.TargetLang)
	count, err := store.ImportLibrary(terminology.Library{languageName: table})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d terms for %s into %s\n", count, languageName, flags.TerminologyDB)
	return nil
}

// loadTerminology picks the terminology table for the translation
// direction, preferring the sqlite store over the JSON library. A library
// keyed only for the opposite direction is reversed rather than ignored.
func loadTerminology(flags *cli.Flags) (terminology.Table, error) {
	if flags.NoTerminology {
		return nil, nil
	}

	sourceName := language.Name(flags.SourceLang)
	targetName := language.Name(flags.TargetLang)

	if flags.TerminologyDB != "" {
		store, err := terminology.OpenStore(flags.TerminologyDB)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		lib, err := store.Load()
		if err != nil {
			return nil, err
		}
		return lib.TableFor(sourceName, targetName), nil
	}

	if flags.Terminology != "" {
		lib, err := terminology.LoadLibrary(flags.Terminology)
		if err != nil {
			return nil, err
		}
		return lib.TableFor(sourceName, targetName), nil
	}

	return nil, nil
}

func buildOrchestrator(flags *cli.Flags, logger *zap.Logger) (*orchestrator.Orchestrator, error) {
	primary, err := buildBackend(flags.Backend, flags)
	if err != nil {
		return nil, err
	}
	if err := primary.IsAvailable(); err != nil {
		return nil, err
	}

	var fallback backend.Backend
	if flags.FallbackBackend != "" && flags.FallbackBackend != flags.Backend {
		fallback, err = buildBackend(flags.FallbackBackend, flags)
		if err != nil {
			return nil, err
		}
		if err := fallback.IsAvailable(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: fallback backend unavailable: %v\n", err)
			fallback = nil
		}
	}

	opts := orchestrator.DefaultOptions()
	opts.MaxRetries = flags.RetryCount
	opts.RetryDelay = time.Duration(flags.RetryDelay * float64(time.Second))

	return orchestrator.New(primary, fallback, opts, logger), nil
}

func buildBackend(provider string, flags *cli.Flags) (backend.Backend, error) {
	config := backend.DefaultConfig()
	config.Provider = provider
	config.OpenAIKey = cli.GetOpenAIKey()
	config.GeminiKey = cli.GetGeminiKey()
	config.OpenAIModel = flags.OpenAIModel
	config.GeminiModel = flags.GeminiModel
	config.Temperature = float32(flags.Temperature)
	return backend.New(config)
}

// dryRun prints the gate's decision for every unit without touching any
// backend.
func dryRun(docPath string, flags *cli.Flags, logger *zap.Logger) error {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	g := gate.New(gate.DefaultConfig(), !flags.KeepTranslated, logger)
	units := document.SplitUnits(string(data))

	skipped := 0
	for i, unit := range units {
		decision := g.Check(unit, flags.SourceLang, flags.TargetLang)
		marker := " "
		if decision.Skip {
			marker = "-"
			skipped++
		}
		fmt.Printf("%s unit %d/%d [%s]: %s\n", marker, i+1, len(units), decision.Reason, firstLine(unit))
	}
	fmt.Printf("\n%d/%d units would be translated\n", len(units)-skipped, len(units))
	return nil
}

func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i] + " …"
		}
	}
	return text
}
