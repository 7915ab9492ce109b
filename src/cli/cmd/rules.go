package cmd

import (
	"fmt"
	"strings"

	"github.com/sofmeright/soundcheck/src/rules"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [selector]",
	Short: "Show the lint rule category catalog",
	Long: `Show the catalog of rule categories recognized in select and ignore
lists, or explain a single selector.

Without arguments, prints every known category. With a selector
argument (a category like E or UP, or a specific code like E501),
explains what it covers and how the audited profile treats it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		printCatalog()
		return nil
	}
	return explainSelector(strings.ToUpper(strings.TrimSpace(args[0])))
}

func printCatalog() {
	profile := cfg.Profile.Resolve()
	selected := map[string]bool{}
	for _, s := range profile.Select {
		selected[s] = true
	}

	fmt.Printf("  %-8s %-28s %s\n", "CODE", "SOURCE", "SUMMARY")
	for _, c := range rules.Categories() {
		mark := " "
		if selected[c.Code] {
			mark = "*"
		}
		fmt.Printf("%s %-8s %-28s %s\n", mark, c.Code, c.Name, c.Summary)
	}
	fmt.Printf("\n* selected in the audited profile\n")
}

func explainSelector(selector string) error {
	if _, _, err := rules.ParseCode(selector); err != nil {
		return err
	}

	cat, ok := rules.Lookup(selector)
	if !ok {
		return fmt.Errorf("unknown rule category %q", selector)
	}

	fmt.Printf("  %-8s %s\n", selector, cat.Name)
	if selector != cat.Code {
		fmt.Printf("  %-8s within category %s\n", "", cat.Code)
	}
	fmt.Printf("  %-8s %s\n", "", cat.Summary)

	profile := cfg.Profile.Resolve()
	var notes []string
	for _, s := range profile.Select {
		if rules.Within(selector, s) {
			notes = append(notes, "selected by "+s)
			break
		}
	}
	for _, s := range profile.Ignore {
		if rules.Within(selector, s) {
			notes = append(notes, "ignored by "+s)
			break
		}
	}
	if len(notes) == 0 {
		notes = append(notes, "not selected")
	}
	fmt.Printf("\n  profile: %s\n", strings.Join(notes, ", "))

	return nil
}
