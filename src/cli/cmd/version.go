package cmd

import (
	"fmt"
	"os"

	"github.com/sofmeright/soundcheck/src/output"
	"github.com/sofmeright/soundcheck/src/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if color := output.UseColor(); color {
			output.Banner(os.Stdout, output.BannerInfo{
				Version: version.Version,
				SHA:     version.Commit,
				Date:    version.BuildDate,
			}, color)
		}
		fmt.Println(version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
