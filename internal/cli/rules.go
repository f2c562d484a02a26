package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opensource-legal/caracara/internal/config"
	"github.com/opensource-legal/caracara/internal/triage"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage custom triage rules",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a custom triage rules file",
	Long: `Parses a YAML rules file and compiles every enabled CEL expression
against the triage factor variables, reporting the first error found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := config.LoadTriageRules(args[0])
		if err != nil {
			return err
		}

		enabled := 0
		for _, r := range rules {
			if !r.Enabled {
				continue
			}
			enabled++
			if err := triage.ValidateRule(r); err != nil {
				return fmt.Errorf("rule %s: %w", r.ID, err)
			}
		}

		color.Green("ok: %d rules (%d enabled)", len(rules), enabled)
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rootCmd.AddCommand(rulesCmd)
}
