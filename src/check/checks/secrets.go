package checks

import (
	"context"
	"fmt"
	"os"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/soundcheck/src/check"
)

func init() {
	check.Register("secrets", func() check.Module { return &secretsModule{} })
}

// secretsModule scans config files for leaked credentials. Tool configs
// travel through CI logs and badge pipelines, so a token pasted into one
// spreads further than most source files.
type secretsModule struct {
	detector *detect.Detector
}

func (m *secretsModule) Name() string         { return "secrets" }
func (m *secretsModule) DefaultEnabled() bool { return true }
func (m *secretsModule) AutoDetect() []string { return nil }

// Configure loads the default gitleaks ruleset. The engine configures
// modules before the scan fans out, which keeps detector construction
// off the hot path and out of the goroutines.
func (m *secretsModule) Configure(opts map[string]any) error {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return fmt.Errorf("secrets: load default ruleset: %w", err)
	}
	m.detector = d
	return nil
}

func (m *secretsModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
	if m.detector == nil {
		return nil, fmt.Errorf("secrets: module not configured")
	}

	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	hits := m.detector.DetectBytes(data)
	if len(hits) == 0 {
		return nil, nil
	}

	findings := make([]check.Finding, 0, len(hits))
	for _, h := range hits {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     h.StartLine + 1, // gitleaks lines are 0-indexed
			Module:   m.Name(),
			Severity: check.SeverityCritical,
			Message:  h.Description + " (" + h.RuleID + ")",
		})
	}
	return findings, nil
}
