package main

import (
	"fmt"
	"os"

	"github.com/helmcode/triage-ai/cmd"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "triage-ai",
		Short: "Rule-based healthcare triage assistant",
		Long: `triage-ai scores symptom descriptions and photos of skin conditions or wounds,
recommends a specialty, and estimates queue position, wait time and the care
resources a patient needs.

It supports triage staff and does not replace professional medical judgement.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewSymptomsCmd(),
		cmd.NewImageCmd(),
		cmd.NewQueueCmd(),
		cmd.NewBatchCmd(),
		cmd.NewRulesCmd(),
		cmd.NewServeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("triage-ai version %s\n", version)
		},
	}
}
