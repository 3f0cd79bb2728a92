package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/formatter"
	"github.com/helmcode/triage-ai/pkg/rules"
)

func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective scoring rules",
		Long: `Print the keyword, threshold and lookup tables in use.

The output is a valid rules file: save it, edit it and pass it back with --rules.

Examples:
  # Dump the built-in rules
  triage-ai rules > rules.yaml

  # Check a customised rules file
  triage-ai rules validate rules.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := loadAnalyzer()
			if err != nil {
				return err
			}
			return formatter.DisplayRules(os.Stdout, an.Rules, outputFormat)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a rules file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rules.Load(args[0]); err != nil {
				printError("Rules file is invalid")
				return err
			}
			fmt.Printf("✓ %s is valid\n", args[0])
			return nil
		},
	})
	return cmd
}
