package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sofmeright/soundcheck/src/badge"
	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/check/checks"
	"github.com/spf13/cobra"
)

var (
	badgeOutput   string
	badgeLabel    string
	badgeFont     string
	badgeFontFile string
	badgeNoRun    bool
	badgeMessage  string
	badgeColor    string
)

var badgeCmd = &cobra.Command{
	Use:   "badge [dir]",
	Short: "Render the audit result as an SVG badge",
	Long: `Run a full audit and render its result as an SVG badge: "passing"
when clean, "N issues" when findings exist, "failing" on criticals.

With --no-run the audit is skipped and --message (and optionally
--color) supply the right-hand side directly, for pipelines that
already have the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBadge,
}

func init() {
	badgeCmd.Flags().StringVarP(&badgeOutput, "output", "o", "", "output file path (default: from config, then .soundcheck/badges/soundcheck.svg)")
	badgeCmd.Flags().StringVar(&badgeLabel, "label", "", "left side text (default: from config, then soundcheck)")
	badgeCmd.Flags().StringVar(&badgeFont, "font", "", "built-in font for text measurement")
	badgeCmd.Flags().StringVar(&badgeFontFile, "font-file", "", "TTF/OTF file for exact text measurement")
	badgeCmd.Flags().BoolVar(&badgeNoRun, "no-run", false, "skip the audit; take the value from --message/--color")
	badgeCmd.Flags().StringVar(&badgeMessage, "message", "", "right side text (requires --no-run)")
	badgeCmd.Flags().StringVar(&badgeColor, "color", "", "hex color or a status word: passing, issues, failing")

	rootCmd.AddCommand(badgeCmd)
}

func runBadge(cmd *cobra.Command, args []string) error {
	eng, err := newBadgeEngine()
	if err != nil {
		return err
	}

	label := badgeLabel
	if label == "" {
		label = cfg.Badge.Label
	}
	if label == "" {
		label = "soundcheck"
	}

	outPath := badgeOutput
	if outPath == "" {
		outPath = cfg.Badge.Output
	}
	if outPath == "" {
		outPath = ".soundcheck/badges/soundcheck.svg"
	}

	var message, color string
	if badgeNoRun {
		if badgeMessage == "" {
			return fmt.Errorf("--no-run requires --message")
		}
		message = badgeMessage
		color = badgeColor
		if color == "" {
			color = "#4c1"
		} else if !strings.HasPrefix(color, "#") {
			color = badge.StatusColor(color)
		}
	} else {
		message, color, err = auditStatus(args)
		if err != nil {
			return err
		}
	}

	svg := eng.Generate(badge.Badge{Label: label, Value: message, Color: color})

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating badge directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("writing badge: %w", err)
	}
	fmt.Printf("  badge → %s\n", outPath)

	return nil
}

// auditStatus runs a quiet full audit and folds the result into the
// badge's message and color.
func auditStatus(args []string) (message, color string, err error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("getting working directory: %w", err)
	}
	if len(args) > 0 {
		rootDir = args[0]
	}

	cache := &check.Cache{RootDir: rootDir, Dir: cfg.Lint.CacheDir, Enabled: cfg.Lint.CacheEnabled()}
	engine, err := check.NewEngine(cfg.Lint, cfg.Profile.Resolve(), rootDir, nil, nil, false, cache)
	if err != nil {
		return "", "", err
	}

	files, err := engine.CollectFiles()
	if err != nil {
		return "", "", fmt.Errorf("collecting files: %w", err)
	}

	findings, runErr := engine.Run(context.Background(), files)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", runErr)
	}
	if slices.Contains(engine.ModuleNames(), "splitconfig") {
		findings = append(findings, checks.CheckSplitConfig(files)...)
	}

	var critical int
	for _, f := range findings {
		if f.Severity == check.SeverityCritical {
			critical++
		}
	}

	switch {
	case critical > 0:
		return "failing", badge.StatusColor("failing"), nil
	case len(findings) == 1:
		return "1 issue", badge.StatusColor("issues"), nil
	case len(findings) > 0:
		return fmt.Sprintf("%d issues", len(findings)), badge.StatusColor("issues"), nil
	default:
		return "passing", badge.StatusColor("passing"), nil
	}
}

func newBadgeEngine() (*badge.Engine, error) {
	size := cfg.Badge.FontSize
	if size == 0 {
		size = 11
	}

	var metrics *badge.FontMetrics
	var err error

	switch {
	case badgeFontFile != "":
		metrics, err = badge.LoadFontFile(badgeFontFile, size)
	case badgeFont != "":
		metrics, err = badge.LoadBuiltinFont(badgeFont, size)
	case cfg.Badge.FontFile != "":
		metrics, err = badge.LoadFontFile(cfg.Badge.FontFile, size)
	default:
		fontName := cfg.Badge.Font
		if fontName == "" {
			fontName = "dejavu-sans"
		}
		metrics, err = badge.LoadBuiltinFont(fontName, size)
	}
	if err != nil {
		return nil, fmt.Errorf("loading badge font: %w", err)
	}

	return badge.New(metrics), nil
}
