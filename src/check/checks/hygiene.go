package checks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sofmeright/soundcheck/src/check"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func init() {
	check.Register("hygiene", func() check.Module {
		return &hygieneModule{cfg: hygieneConfig{TrailingWhitespace: true, FinalNewline: true}}
	})
}

type hygieneConfig struct {
	TrailingWhitespace bool `json:"trailing_whitespace"`
	FinalNewline       bool `json:"final_newline"`
}

type hygieneModule struct {
	cfg hygieneConfig
}

func (m *hygieneModule) Name() string         { return "hygiene" }
func (m *hygieneModule) DefaultEnabled() bool { return true }
func (m *hygieneModule) AutoDetect() []string { return nil }

// Configure implements check.ConfigurableModule.
func (m *hygieneModule) Configure(opts map[string]any) error {
	cfg := hygieneConfig{TrailingWhitespace: true, FinalNewline: true}
	if len(opts) != 0 {
		b, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("hygiene: marshal options: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return fmt.Errorf("hygiene: unmarshal options: %w", err)
		}
	}
	m.cfg = cfg
	return nil
}

func (m *hygieneModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	var findings []check.Finding

	if bytes.HasPrefix(data, utf8BOM) {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     1,
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "file starts with a UTF-8 byte order mark",
		})
	}

	// Count line ending types
	crlfCount := bytes.Count(data, []byte("\r\n"))
	// LF-only count: total \n minus those that are part of \r\n
	lfCount := bytes.Count(data, []byte("\n")) - crlfCount

	// Mixed line endings
	if crlfCount > 0 && lfCount > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     1,
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "mixed line endings (CRLF and LF)",
		})
	}

	// Pure CRLF files
	if crlfCount > 0 && lfCount == 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     1,
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  "file uses CRLF line endings",
		})
	}

	lines := bytes.Split(data, []byte("\n"))
	if m.cfg.TrailingWhitespace {
		for i, line := range lines {
			// Skip last empty element from trailing newline split
			if i == len(lines)-1 && len(line) == 0 {
				continue
			}
			trimmed := bytes.TrimRight(line, " \t\r")
			if len(trimmed) < len(line) {
				stripped := bytes.TrimRight(line, "\r")
				if len(trimmed) < len(stripped) {
					findings = append(findings, check.Finding{
						File:     file.Path,
						Line:     i + 1,
						Module:   m.Name(),
						Severity: check.SeverityInfo,
						Message:  "trailing whitespace",
					})
				}
			}
		}
	}

	// Missing final newline
	if m.cfg.FinalNewline && data[len(data)-1] != '\n' {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     len(lines),
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  "missing final newline",
		})
	}

	return findings, nil
}
