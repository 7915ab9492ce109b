package checks

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("splitconfig", func() check.Module { return &splitConfigModule{} })
}

// splitConfigModule flags tool settings that live outside
// pyproject.toml. The per-file check reports each straggler; the
// repo-wide duplicate scan is CheckSplitConfig below.
type splitConfigModule struct{}

func (m *splitConfigModule) Name() string         { return "splitconfig" }
func (m *splitConfigModule) DefaultEnabled() bool { return true }
func (m *splitConfigModule) AutoDetect() []string {
	return []string{"setup.cfg", "tox.ini", "mypy.ini", ".mypy.ini", ".flake8", ".isort.cfg"}
}

func (m *splitConfigModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
	if pyproject.Classify(file.Path) == pyproject.KindPyproject {
		return nil, nil
	}
	legacy, err := pyproject.LoadLegacy(file.AbsPath)
	if err != nil {
		return nil, err
	}

	var findings []check.Finding
	for _, concern := range fileConcerns(legacy) {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("%s is configured in %s; expected in pyproject.toml", concern, pyproject.Classify(file.Path)),
		})
	}
	return findings, nil
}

func fileConcerns(f *pyproject.LegacyFile) []string {
	var concerns []string
	if f.ConfiguresMypy() {
		concerns = append(concerns, "mypy")
	}
	if f.ConfiguresLint() {
		concerns = append(concerns, "lint")
	}
	if f.ConfiguresIsort() {
		concerns = append(concerns, "isort")
	}
	return concerns
}

// CheckSplitConfig detects tool concerns that are configured in more
// than one file of the same directory. Called separately from the
// per-file Check because it needs the full file list. Scoping by
// directory keeps monorepo sub-packages out of each other's findings,
// and pyproject.toml is treated as the home of a concern: every other
// holder gets the finding.
func CheckSplitConfig(files []check.FileInfo) []check.Finding {
	holders := map[string][]string{} // "dir\x00concern" -> paths, pyproject first

	for _, f := range files {
		dir := path.Dir(filepath.ToSlash(f.Path))
		if pyproject.Classify(f.Path) == pyproject.KindPyproject {
			doc, _, err := loadDocument(f)
			if err != nil || doc == nil {
				continue
			}
			for _, concern := range documentConcerns(doc) {
				key := dir + "\x00" + concern
				holders[key] = append([]string{f.Path}, holders[key]...)
			}
			continue
		}
		legacy, err := pyproject.LoadLegacy(f.AbsPath)
		if err != nil {
			continue
		}
		for _, concern := range fileConcerns(legacy) {
			key := dir + "\x00" + concern
			holders[key] = append(holders[key], f.Path)
		}
	}

	keys := make([]string, 0, len(holders))
	for key := range holders {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var findings []check.Finding
	for _, key := range keys {
		paths := holders[key]
		if len(paths) < 2 {
			continue
		}
		_, concern, _ := strings.Cut(key, "\x00")
		for _, p := range paths[1:] {
			findings = append(findings, check.Finding{
				File:     p,
				Module:   "splitconfig",
				Severity: check.SeverityWarning,
				Message:  fmt.Sprintf("%s is configured in %d files: %s", concern, len(paths), strings.Join(paths, ", ")),
			})
		}
	}
	return findings
}

func documentConcerns(doc *pyproject.Document) []string {
	var concerns []string
	if doc.Has("tool", "mypy") {
		concerns = append(concerns, "mypy")
	}
	if doc.Has("tool", "ruff") {
		concerns = append(concerns, "lint")
	}
	if doc.Has("tool", "isort") || doc.Has("tool", "ruff", "isort") || doc.Has("tool", "ruff", "lint", "isort") {
		concerns = append(concerns, "isort")
	}
	return concerns
}
