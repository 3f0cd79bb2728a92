package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/analyzer"
	"github.com/helmcode/triage-ai/pkg/config"
	"github.com/helmcode/triage-ai/pkg/formatter"
	"github.com/helmcode/triage-ai/pkg/logging"
	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/parser"
)

var cfg = config.Load()

var (
	rulesPath    string
	logLevel     string
	outputFormat string
)

// AddGlobalFlags registers the flags shared by every subcommand. Defaults come
// from the TRIAGE_* environment variables.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&rulesPath, "rules", cfg.RulesPath, "Path to a YAML rules file (defaults to the built-in rules)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", cfg.Output, "Output format (human, json, yaml)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !formatter.ValidFormat(outputFormat) {
			return fmt.Errorf("invalid output format: %s (valid: human, json, yaml)", outputFormat)
		}
		logging.Init(cmd.Name() == "serve", logging.ParseLevel(logLevel))
		return nil
	}
}

func loadAnalyzer() (*analyzer.Analyzer, error) {
	an, err := analyzer.NewFromFile(rulesPath, cfg.ProcessingTime)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return an, nil
}

// readQueue loads a queue snapshot file. An empty path means an empty queue.
func readQueue(path string) ([]model.QueueEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue file: %w", err)
	}
	return parser.ParseQueue(data)
}

func humanOutput() bool {
	return outputFormat == "human"
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	return s
}

func printHeader(title string, details ...string) {
	if !humanOutput() {
		return
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println(title)
	for _, d := range details {
		fmt.Println(d)
	}
}

func printSuccess(msg string) {
	if !humanOutput() {
		return
	}
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}
