package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	SourceLang string
	TargetLang string
	DryRun     bool
	Verbose    bool
	ListModels bool

	// Terminology flags
	Terminology   string
	TerminologyDB string
	ImportTerms   string
	NoTerminology bool
	DirectTerms   bool

	// Pipeline flags
	OutputFormat   string
	Prompt         string
	KeepTranslated bool

	// Backend flags
	Backend         string
	FallbackBackend string
	OpenAIModel     string
	GeminiModel     string
	Temperature     float64
	RetryCount      int
	RetryDelay      float64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		SourceLang:   "zh",
		TargetLang:   "en",
		OutputFormat: "bilingual",
		Backend:      "openai",
		OpenAIModel:  "gpt-4o-mini",
		GeminiModel:  "gemini-2.0-flash",
		Temperature:  0.3,
		RetryCount:   3,
		RetryDelay:   1.0,
	}
}
