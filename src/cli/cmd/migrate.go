package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sofmeright/soundcheck/src/config"
	"github.com/sofmeright/soundcheck/src/output"
	"github.com/sofmeright/soundcheck/src/pyproject"
	"github.com/spf13/cobra"
)

var (
	migrateInPlace bool
	migrateOutput  string
	migrateLegacy  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Migrate configuration to the current layout",
	Long: `Migrate configuration files to their current layout.

For a pyproject.toml (the default), rewrites the deprecated flat
[tool.ruff] lint keys into [tool.ruff.lint]. With --legacy, settings
from .flake8, mypy.ini, .isort.cfg, setup.cfg and tox.ini in the same
directory are folded into the tool tables; values already present in
pyproject.toml win.

For a .yml/.yaml file, migrates a .soundcheck.yml config to the latest
schema version.

By default, prints the migrated file to stdout. Use --in-place to
overwrite the file, or --output to write to a different path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVarP(&migrateInPlace, "in-place", "i", false, "overwrite the file in place")
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "write the migrated file to this path")
	migrateCmd.Flags().BoolVar(&migrateLegacy, "legacy", false, "absorb settings from legacy INI-style config files")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	inputPath := "pyproject.toml"
	if len(args) > 0 {
		inputPath = args[0]
	}

	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".yml", ".yaml":
		return migrateConfigFile(inputPath)
	}
	return migratePyproject(inputPath)
}

// migrateConfigFile runs the .soundcheck.yml schema version chain.
func migrateConfigFile(inputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	migrated, err := config.MigrateToLatest(data)
	if err != nil {
		return err
	}

	return writeMigrated(inputPath, migrated)
}

func migratePyproject(inputPath string) error {
	doc, err := pyproject.Load(inputPath)
	if err != nil {
		return err
	}

	var applied []output.AppliedChange
	skipped := map[string]int{}

	// Layout modernization: flat [tool.ruff] lint keys move under lint.
	for _, key := range []string{"select", "ignore", "isort"} {
		if doc.Has("tool", "ruff", key) {
			applied = append(applied, output.AppliedChange{
				Key: key,
				Old: "tool.ruff",
				New: "tool.ruff.lint",
			})
		}
	}
	if err := doc.ModernizeRuff(); err != nil {
		return err
	}

	if migrateLegacy {
		legacyApplied, legacySkipped, err := absorbLegacyFiles(doc, filepath.Dir(inputPath))
		if err != nil {
			return err
		}
		applied = append(applied, legacyApplied...)
		for reason, n := range legacySkipped {
			skipped[reason] += n
		}
	}

	migrated, err := doc.Canonical()
	if err != nil {
		return err
	}

	if err := writeMigrated(inputPath, migrated); err != nil {
		return err
	}

	reportMigration(applied, skipped)
	return nil
}

// legacyCandidates are the basenames scanned for --legacy absorption,
// in absorption order. The first file to provide a value wins.
var legacyCandidates = []string{".flake8", "mypy.ini", ".mypy.ini", ".isort.cfg", "setup.cfg", "tox.ini"}

func absorbLegacyFiles(doc *pyproject.Document, dir string) ([]output.AppliedChange, map[string]int, error) {
	var applied []output.AppliedChange
	skipped := map[string]int{}

	for _, name := range legacyCandidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		lf, err := pyproject.LoadLegacy(path)
		if err != nil {
			return nil, nil, err
		}

		mypy := lf.MypyTable()
		ruff := lf.RuffTable()
		if len(mypy) == 0 && len(ruff) == 0 {
			skipped["no recognized settings"]++
			continue
		}

		// Record the diff before merging: absorption only fills gaps,
		// so a key the document already has is a skip.
		for _, frag := range []struct {
			prefix []string
			table  map[string]any
		}{
			{[]string{"tool", "mypy"}, mypy},
			{[]string{"tool", "ruff"}, ruff},
		} {
			flattenLeaves(frag.prefix, frag.table, func(leaf []string, val any) {
				if doc.Has(leaf...) {
					skipped["already set in pyproject"]++
					return
				}
				applied = append(applied, output.AppliedChange{
					Key:    strings.Join(leaf, "."),
					New:    displayValue(val),
					Source: name,
				})
			})
		}

		if err := pyproject.AbsorbLegacy(doc, []*pyproject.LegacyFile{lf}); err != nil {
			return nil, nil, err
		}
	}

	return applied, skipped, nil
}

// flattenLeaves walks a nested table depth-first in sorted key order and
// visits each non-table leaf with its full key path.
func flattenLeaves(prefix []string, tbl map[string]any, visit func(leaf []string, val any)) {
	keys := make([]string, 0, len(tbl))
	for k := range tbl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		leaf := append(append([]string{}, prefix...), k)
		if sub, ok := tbl[k].(map[string]any); ok {
			flattenLeaves(leaf, sub, visit)
			continue
		}
		visit(leaf, tbl[k])
	}
}

func displayValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, e := range list {
			parts[i] = fmt.Sprint(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

func reportMigration(applied []output.AppliedChange, skipped map[string]int) {
	if len(applied) == 0 && len(skipped) == 0 {
		return
	}

	color := output.UseColor()
	sec := output.NewSection(os.Stderr, "Migrate", 0, color)
	output.SectionChanges(sec, "Migrated", applied, color)

	groups := make([]output.SkippedGroup, 0, len(skipped))
	for reason, n := range skipped {
		groups = append(groups, output.SkippedGroup{Reason: reason, Count: n})
	}
	output.SectionSkipped(sec, "Skipped", groups, color)
	sec.Close()
}

func writeMigrated(inputPath string, data []byte) error {
	switch {
	case migrateInPlace:
		if err := os.WriteFile(inputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", inputPath, err)
		}
		fmt.Fprintf(os.Stderr, "  migrated %s (in-place)\n", inputPath)

	case migrateOutput != "":
		if err := os.WriteFile(migrateOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", migrateOutput, err)
		}
		fmt.Fprintf(os.Stderr, "  migrated %s → %s\n", inputPath, migrateOutput)

	default:
		fmt.Print(string(data))
	}

	return nil
}
