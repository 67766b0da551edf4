package terminology

import (
	"fmt"
	"os"
	"strings"
)

// ReadPairFile reads a plain-text terminology file with one term per
// line in "source = target" form. Lines without '=', comment lines and
// entries with an empty side are ignored.
func ReadPairFile(filename string) (Table, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminology file: %w", err)
	}

	table := Table{}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		source := strings.TrimSpace(parts[0])
		target := strings.TrimSpace(parts[1])
		if source == "" || target == "" {
			continue
		}
		table[source] = target
	}

	return table, nil
}
