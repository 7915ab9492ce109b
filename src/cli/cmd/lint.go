package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/check/checks"
	"github.com/sofmeright/soundcheck/src/output"
	"github.com/spf13/cobra"
)

var (
	lintLevel        string
	lintModules      []string
	lintSkipModules  []string
	lintNoCache      bool
	lintCacheDir     string
	lintAll          bool
	lintJUnit        string
	lintListFiles    bool
	lintTargetBranch string
)

var lintCmd = &cobra.Command{
	Use:   "lint [dir]",
	Short: "Audit toolchain configuration files",
	Long: `Run cache-aware, delta-only audits over the repository's Python
toolchain configuration.

By default, only changed files are scanned (--level changed).
Use --level full or --all to scan everything.

Modules run in parallel and results are cached by content hash.
The command exits nonzero when any critical finding is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintLevel, "level", "", "scan level: changed or full (default: from config, then changed)")
	lintCmd.Flags().StringSliceVarP(&lintModules, "module", "m", nil, "run only these modules (comma-separated)")
	lintCmd.Flags().StringSliceVar(&lintSkipModules, "skip-module", nil, "skip these modules (comma-separated)")
	lintCmd.Flags().BoolVar(&lintNoCache, "no-cache", false, "disable cache (clear and rescan)")
	lintCmd.Flags().StringVar(&lintCacheDir, "cache-dir", "", "cache directory (default: from config, then .soundcheck/cache/check)")
	lintCmd.Flags().BoolVar(&lintAll, "all", false, "scan all files (shorthand for --level full)")
	lintCmd.Flags().StringVar(&lintJUnit, "junit", "", "write a JUnit XML report to this path (automatic in CI)")
	lintCmd.Flags().BoolVar(&lintListFiles, "list-files", false, "list the files that would be scanned and exit")
	lintCmd.Flags().StringVar(&lintTargetBranch, "target-branch", "", "branch to diff against for --level changed")

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintAll {
		lintLevel = "full"
	}
	// CLI flag > config > default "changed"
	if lintLevel == "" && cfg.Lint.Level != "" {
		lintLevel = string(cfg.Lint.Level)
	}
	if lintLevel == "" {
		lintLevel = "changed"
	}

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	if len(args) > 0 {
		rootDir = args[0]
	}

	// Set up cache
	cacheDir := lintCacheDir
	if cacheDir == "" {
		cacheDir = cfg.Lint.CacheDir
	}
	cache := &check.Cache{
		RootDir: rootDir,
		Dir:     cacheDir,
		Enabled: cfg.Lint.CacheEnabled() && !lintNoCache,
	}
	if lintNoCache {
		if err := cache.Clear(); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "cache: clear failed: %v\n", err)
		}
	}
	if cache.Enabled {
		check.EnsureGitignore(rootDir)
	}

	profile := cfg.Profile.Resolve()

	engine, err := check.NewEngine(cfg.Lint, profile, rootDir, lintModules, lintSkipModules, verbose, cache)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "modules: %v\n", engine.ModuleNames())
	}

	// Collect all files
	files, err := engine.CollectFiles()
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}

	// Delta filtering — only scan changed files unless --level full
	if lintLevel != "full" {
		branch := lintTargetBranch
		if branch == "" {
			branch = cfg.Lint.TargetBranch
		}
		delta := &check.Delta{RootDir: rootDir, TargetBranch: branch, Verbose: verbose}
		changedSet, deltaErr := delta.ChangedFiles(context.Background())
		if deltaErr != nil && verbose {
			fmt.Fprintf(os.Stderr, "delta: %v, falling back to full scan\n", deltaErr)
		}
		if changedSet != nil {
			allFiles := files
			files = check.FilterByDelta(files, changedSet)
			if verbose {
				fmt.Fprintf(os.Stderr, "delta: %d/%d files changed\n", len(files), len(allFiles))
			}
		}
	}

	if lintListFiles {
		for _, f := range files {
			fmt.Println(f.Path)
		}
		return nil
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "scanning %d files\n", len(files))
	}

	ctx := context.Background()
	ci := output.IsCI()
	color := output.UseColor()
	w := os.Stdout

	start := time.Now()
	findings, modStats, runErr := engine.RunWithStats(ctx, files)

	// Cross-file pass: the same tool configured in more than one place.
	// Honors the same module selection as the per-file scan.
	if slices.Contains(engine.ModuleNames(), "splitconfig") {
		findings = append(findings, checks.CheckSplitConfig(files)...)
	}
	elapsed := time.Since(start)

	// Global sort for stable output
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		return a.Message < b.Message
	})

	// Tally
	var critical, warning, info int
	var totalFiles, totalCached int
	for _, f := range findings {
		switch f.Severity {
		case check.SeverityCritical:
			critical++
		case check.SeverityWarning:
			warning++
		case check.SeverityInfo:
			info++
		}
	}
	for _, ms := range modStats {
		totalFiles += ms.Files
		totalCached += ms.Cached
	}

	// JUnit XML: explicit --junit path, or the default location in CI
	junitPath := lintJUnit
	if junitPath == "" && ci {
		junitPath = ".soundcheck/reports/lint.xml"
	}
	if junitPath != "" {
		if jErr := output.WriteLintJUnit(junitPath, findings, files, engine.ModuleNames(), elapsed); jErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write junit report: %v\n", jErr)
		}
	}

	output.ContextBlock(w, output.CIContext())

	// ── Lint section ──
	output.SectionStart(w, "sc_lint", "Lint")
	sec := output.NewSection(w, "Lint", elapsed, color)
	output.LintTable(sec, modStats, color)
	sec.Separator()
	sec.Row("%-16s%5d   %5d   %d findings (%d critical)",
		"total", totalFiles, totalCached, len(findings), critical)
	sec.Close()
	output.SectionEnd(w, "sc_lint")

	// ── Findings section (only when findings > 0) ──
	if len(findings) > 0 {
		budget := output.DefaultFindingsBudget
		if verbose {
			budget = 0
		}
		output.SectionStartCollapsed(w, "sc_findings", "Findings")
		fSec := output.NewSection(w, "Findings", 0, color)
		output.SectionFindings(fSec, findings, color, budget)
		fSec.Separator()
		fSec.Row("%s", output.FindingsSummaryLine(len(findings), critical, warning, info, len(files), color))
		fSec.Close()
		output.SectionEnd(w, "sc_findings")
	}

	// Cache stats
	if verbose && cache.Enabled {
		fmt.Fprintf(os.Stderr, "cache: %d hits, %d misses\n",
			engine.CacheHits.Load(), engine.CacheMisses.Load())
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", runErr)
	}

	if critical > 0 {
		return fmt.Errorf("lint failed: %d critical findings", critical)
	}

	return nil
}
