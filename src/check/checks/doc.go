// Package checks contains all built-in audit modules.
// Import this package to register all modules via their init() functions.
package checks

import (
	"os"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

// loadDocument reads and parses a pyproject.toml for inspection.
// A nil document with a nil error means the file does not parse;
// the syntax module owns reporting parse failures.
func loadDocument(file check.FileInfo) (*pyproject.Document, []byte, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, nil, err
	}
	doc, err := pyproject.Parse(data)
	if err != nil {
		return nil, data, nil
	}
	doc.Path = file.Path
	return doc, data, nil
}

// tableKeyLine locates a key assignment inside the named table, falling
// back to the first occurrence anywhere when the header is absent.
// Disambiguates keys that several tables define, e.g. line-length.
func tableKeyLine(data []byte, table, key string) int {
	if start := pyproject.FindTableLine(data, table); start > 0 {
		if line := pyproject.FindKeyLineAfter(data, key, start); line > 0 {
			return line
		}
	}
	return pyproject.FindKeyLine(data, key)
}
