package backend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polyglotkit/doctrans/internal/language"
)

// BuildPrompt renders the user prompt for one translation request. The
// terminology block lists approved translations the model must use, and
// placeholder tokens are declared untouchable.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Translate the following %s text to %s. Respond with only the translation, nothing else.\n",
		language.Name(req.SourceLang), language.Name(req.TargetLang))
	b.WriteString("Keep any [[T0]]-style placeholder tokens exactly as they are; do not translate, reshape or remove them.\n")

	if len(req.Terminology) > 0 {
		b.WriteString("Use these approved term translations:\n")
		sources := make([]string, 0, len(req.Terminology))
		for source := range req.Terminology {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Fprintf(&b, "- %s => %s\n", source, req.Terminology[source])
		}
	}

	if req.Prompt != "" {
		b.WriteString(req.Prompt)
		b.WriteString("\n")
	}

	b.WriteString("\nText:\n")
	b.WriteString(req.Text)
	return b.String()
}
