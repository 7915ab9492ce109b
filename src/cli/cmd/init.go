package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	initStdout bool
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a pyproject.toml with the audited toolchain settings",
	Long: `Write a pyproject.toml whose [tool.black], [tool.mypy] and [tool.ruff]
tables match the settings this tool audits against. Profile overrides
from .soundcheck.yml are applied.

Refuses to overwrite an existing pyproject.toml unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initStdout, "stdout", false, "print the document instead of writing a file")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing pyproject.toml")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	profile := cfg.Profile.Resolve()
	doc, err := profile.Document()
	if err != nil {
		return err
	}
	data, err := doc.Canonical()
	if err != nil {
		return err
	}

	if initStdout {
		fmt.Print(string(data))
		return nil
	}

	path := filepath.Join(dir, "pyproject.toml")
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "  wrote %s\n", path)

	return nil
}
