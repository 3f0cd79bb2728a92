package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/analyzer"
	"github.com/helmcode/triage-ai/pkg/formatter"
	"github.com/helmcode/triage-ai/pkg/model"
)

var (
	symptomsPain     int
	symptomsDuration string
	symptomsName     string
	symptomsAge      int
	symptomsQueue    string
)

func NewSymptomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symptoms DESCRIPTION",
		Short: "Analyze a free-text symptom description",
		Long: `Score a symptom description, recommend a specialty and place the patient in the queue.

Examples:
  # Analyze a description
  triage-ai symptoms "high fever and a severe headache since this morning"

  # Include pain level and duration
  triage-ai symptoms "stomach pain and nausea" --pain 7 --duration 6-24h

  # Place the patient against the current waiting room
  triage-ai symptoms "chest pain" --queue waiting.yaml -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSymptoms,
	}

	cmd.Flags().IntVar(&symptomsPain, "pain", analyzer.DefaultPainScale, "Pain scale from 1 to 10")
	cmd.Flags().StringVar(&symptomsDuration, "duration", "", "How long symptoms have lasted (<1h, 1-6h, 6-24h, 1-3d, >3d)")
	cmd.Flags().StringVar(&symptomsName, "name", "", "Patient name")
	cmd.Flags().IntVar(&symptomsAge, "age", 0, "Patient age")
	cmd.Flags().StringVar(&symptomsQueue, "queue", "", "Queue snapshot file (JSON or YAML)")

	return cmd
}

func runSymptoms(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	duration, err := model.ParseDuration(symptomsDuration)
	if err != nil {
		return err
	}

	an, err := loadAnalyzer()
	if err != nil {
		return err
	}
	queue, err := readQueue(symptomsQueue)
	if err != nil {
		return err
	}

	printHeader("🩺 Symptom Analysis", fmt.Sprintf("📝 Symptoms: %s", text))

	report, err := an.AnalyzeSymptoms(model.SymptomRecord{
		Text:        text,
		PainScale:   symptomsPain,
		Duration:    duration,
		PatientName: symptomsName,
		Age:         symptomsAge,
	}, queue)
	if err != nil {
		printError("Analysis failed")
		return err
	}
	printSuccess(fmt.Sprintf("Placed against %d queued patients", len(queue)))

	return formatter.DisplaySymptoms(os.Stdout, report, outputFormat)
}
