package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/analyzer"
	"github.com/helmcode/triage-ai/pkg/formatter"
	"github.com/helmcode/triage-ai/pkg/parser"
	"github.com/helmcode/triage-ai/pkg/records"
)

func NewBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Triage a list of patients and show the dashboard",
		Long: `Analyze every patient in a JSON or YAML file in arrival order. Each patient is
placed against the ones before them, then the session dashboard is printed.

Example file:
  patients:
    - text: chest pain and shortness of breath
      pain_scale: 8
      duration: <1h
      patient_name: Ana
    - text: runny nose

Examples:
  triage-ai batch morning.yaml
  triage-ai batch morning.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}
}

type batchResult struct {
	Reports []*analyzer.SymptomReport `json:"reports" yaml:"reports"`
	Summary records.Summary           `json:"summary" yaml:"summary"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read patient file: %w", err)
	}
	patients, err := parser.ParsePatients(data)
	if err != nil {
		return err
	}
	an, err := loadAnalyzer()
	if err != nil {
		return err
	}

	printHeader("🏥 Batch Triage", fmt.Sprintf("📁 File: %s", args[0]), fmt.Sprintf("👥 Patients: %d", len(patients)))

	store := records.NewStore()
	result := batchResult{Reports: make([]*analyzer.SymptomReport, 0, len(patients))}
	for i, p := range patients {
		report, err := an.AnalyzeSymptoms(p, store.Queue())
		if err != nil {
			return fmt.Errorf("patient %d: %w", i+1, err)
		}
		rec := store.Add(report.Patient, report.Analysis)
		report.RecordID = rec.ID
		result.Reports = append(result.Reports, report)
		slog.Debug("patient triaged", "index", i+1, "priority", report.Analysis.Priority, "position", report.Queue.Position)
	}
	result.Summary = store.Summary()
	printSuccess(fmt.Sprintf("Triaged %d patients", len(patients)))

	if !humanOutput() {
		return formatter.DisplayResults(os.Stdout, result, outputFormat)
	}
	if err := formatter.DisplayQueue(os.Stdout, an.Triage.Order(store.Queue()), outputFormat); err != nil {
		return err
	}
	return formatter.DisplayDashboard(os.Stdout, result.Summary, outputFormat)
}
