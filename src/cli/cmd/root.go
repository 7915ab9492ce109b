package cmd

import (
	"fmt"
	"os"

	"github.com/sofmeright/soundcheck/src/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	chdir   string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "soundcheck",
	Short: "Python toolchain configuration auditor",
	Long: `SoundCheck keeps a Python project's pyproject.toml in tune: it audits
the formatter, type checker, and linter tables against a curated
profile, rewrites them into canonical form, and migrates legacy
single-tool config files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if chdir != "" {
			if err := os.Chdir(chdir); err != nil {
				return fmt.Errorf("changing directory: %w", err)
			}
		}
		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		warnings, verr := config.Validate(cfg)
		if verr != nil {
			return fmt.Errorf("invalid config: %w", verr)
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "config: %s\n", w)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .soundcheck.yml)")
	rootCmd.PersistentFlags().StringVarP(&chdir, "chdir", "C", "", "run as if started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
