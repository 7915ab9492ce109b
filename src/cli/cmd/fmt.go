package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sofmeright/soundcheck/src/pyproject"
	"github.com/spf13/cobra"
)

var (
	fmtInPlace bool
	fmtOutput  string
	fmtCheck   bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Rewrite pyproject.toml in canonical form",
	Long: `Rewrite a pyproject.toml so the managed tool tables ([tool.black],
[tool.mypy], [tool.ruff]) serialize in a deterministic canonical order.
Unmanaged tables and unknown keys are preserved.

By default, prints the canonical document to stdout. Use --in-place to
overwrite the file, or --output to write to a different path.

--check writes nothing and exits nonzero when the file is not already
canonical, for use as a CI gate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtInPlace, "in-place", "i", false, "overwrite the file in place")
	fmtCmd.Flags().StringVarP(&fmtOutput, "output", "o", "", "write the canonical document to this path")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "exit nonzero if the file is not canonical")

	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	inputPath := "pyproject.toml"
	if len(args) > 0 {
		inputPath = args[0]
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	doc, err := pyproject.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	canonical, err := doc.Canonical()
	if err != nil {
		return err
	}

	if fmtCheck {
		if !bytes.Equal(data, canonical) {
			return fmt.Errorf("%s is not canonical (run soundcheck fmt -i)", inputPath)
		}
		return nil
	}

	switch {
	case fmtInPlace:
		if bytes.Equal(data, canonical) {
			fmt.Fprintf(os.Stderr, "  %s already canonical\n", inputPath)
			return nil
		}
		if err := os.WriteFile(inputPath, canonical, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", inputPath, err)
		}
		fmt.Fprintf(os.Stderr, "  formatted %s (in-place)\n", inputPath)

	case fmtOutput != "":
		if err := os.WriteFile(fmtOutput, canonical, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", fmtOutput, err)
		}
		fmt.Fprintf(os.Stderr, "  formatted %s → %s\n", inputPath, fmtOutput)

	default:
		fmt.Print(string(canonical))
	}

	return nil
}
