package terminology

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Entry is one row of a terminology table.
type Entry struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Table maps source terms to their approved translations for one target
// language. Source terms are unique by construction.
type Table map[string]string

// Library maps a target-language name to its terminology table.
type Library map[string]Table

// LoadLibrary reads a terminology library from a JSON file of the form
// {"English": {"晶裂": "crystal crack", ...}, ...}.
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminology file: %w", err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse terminology file: %w", err)
	}
	return lib, nil
}

// SaveLibrary writes a terminology library as indented JSON.
func SaveLibrary(path string, lib Library) error {
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode terminology: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write terminology file: %w", err)
	}
	return nil
}

// TableFor selects the table for a translation direction. The library is
// keyed by target-language name; when only the opposite direction is
// present, its reversed table serves so an en->zh run against a zh->en
// library still gets terminology protection.
func (l Library) TableFor(sourceName, targetName string) Table {
	if table := l[targetName]; len(table) > 0 {
		return table
	}
	if table := l[sourceName]; len(table) > 0 {
		return table.Reverse()
	}
	return nil
}

// Reverse builds the target-to-source map used when translating in the
// opposite direction. It is computed once per document run and passed
// explicitly into extraction calls. When several source terms share a
// target, the longest source wins.
func (t Table) Reverse() Table {
	reversed := make(Table, len(t))
	for source, target := range t {
		if target == "" {
			continue
		}
		if existing, ok := reversed[target]; ok && len([]rune(existing)) >= len([]rune(source)) {
			continue
		}
		reversed[target] = source
	}
	return reversed
}

// SortedSources returns the source terms longest-first so that a short
// term never clobbers part of a longer overlapping one. Terms with an
// empty target are excluded; there is nothing safe to substitute for them.
func (t Table) SortedSources() []string {
	sources := make([]string, 0, len(t))
	for source, target := range t {
		if source == "" || target == "" {
			continue
		}
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		ri, rj := len([]rune(sources[i])), len([]rune(sources[j]))
		if ri != rj {
			return ri > rj
		}
		return sources[i] < sources[j]
	})
	return sources
}
