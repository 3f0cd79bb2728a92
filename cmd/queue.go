package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/formatter"
	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/triage"
)

var (
	queueFile      string
	queueSeverity  float64
	queuePosition  int
	queuePriority  string
	queueSpecialty string
)

func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue placement, wait estimates and resource allocation",
		Long: `Triage arithmetic on its own, without analyzing symptoms.

Examples:
  # Where does a patient with severity 6.5 land in the waiting room?
  triage-ai queue position --severity 6.5 --queue waiting.yaml

  # How long is the wait for the 4th MODERATE patient?
  triage-ai queue wait --position 4 --priority moderate

  # Which room, staff and equipment does a patient need?
  triage-ai queue resources --severity 8.5 --specialty Cardiology

  # Print a waiting room in treatment order
  triage-ai queue order --queue waiting.yaml`,
	}

	cmd.AddCommand(
		newQueuePositionCmd(),
		newQueueWaitCmd(),
		newQueueResourcesCmd(),
		newQueueOrderCmd(),
	)
	return cmd
}

func newQueuePositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Queue position and wait for a severity score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkSeverity(queueSeverity); err != nil {
				return err
			}
			an, err := loadAnalyzer()
			if err != nil {
				return err
			}
			queue, err := readQueue(queueFile)
			if err != nil {
				return err
			}
			return formatter.DisplayPlacement(os.Stdout, an.Triage.Place(queueSeverity, queue), outputFormat)
		},
	}
	cmd.Flags().Float64Var(&queueSeverity, "severity", 0, "Severity score from 0 to 10")
	cmd.Flags().StringVar(&queueFile, "queue", "", "Queue snapshot file (JSON or YAML)")
	cmd.MarkFlagRequired("severity")
	return cmd
}

func newQueueWaitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Estimated wait for a queue position and priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(queuePriority)
			if err != nil {
				return err
			}
			an, err := loadAnalyzer()
			if err != nil {
				return err
			}
			wait, err := an.Triage.EstimateWait(queuePosition, p)
			if err != nil {
				return err
			}
			return formatter.DisplayPlacement(os.Stdout, model.QueuePlacement{
				Position: queuePosition,
				Priority: p,
				Wait:     wait,
				WaitText: triage.FormatWait(wait),
			}, outputFormat)
		},
	}
	cmd.Flags().IntVar(&queuePosition, "position", 1, "Queue position (1 is next)")
	cmd.Flags().StringVar(&queuePriority, "priority", "", "Priority tier (CRITICAL, URGENT, MODERATE, LOW)")
	cmd.MarkFlagRequired("priority")
	return cmd
}

func newQueueResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Room, staff and equipment for a severity and specialty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkSeverity(queueSeverity); err != nil {
				return err
			}
			an, err := loadAnalyzer()
			if err != nil {
				return err
			}
			return formatter.DisplayResources(os.Stdout, an.Triage.AllocateResources(queueSeverity, queueSpecialty), outputFormat)
		},
	}
	cmd.Flags().Float64Var(&queueSeverity, "severity", 0, "Severity score from 0 to 10")
	cmd.Flags().StringVar(&queueSpecialty, "specialty", "", "Recommended specialty")
	cmd.MarkFlagRequired("severity")
	return cmd
}

func newQueueOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print a queue snapshot in treatment order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := loadAnalyzer()
			if err != nil {
				return err
			}
			queue, err := readQueue(queueFile)
			if err != nil {
				return err
			}
			return formatter.DisplayQueue(os.Stdout, an.Triage.Order(queue), outputFormat)
		},
	}
	cmd.Flags().StringVar(&queueFile, "queue", "", "Queue snapshot file (JSON or YAML)")
	cmd.MarkFlagRequired("queue")
	return cmd
}

func checkSeverity(s float64) error {
	if s < model.MinSeverity || s > model.MaxSeverity {
		return fmt.Errorf("severity must be between %v and %v, got %v", model.MinSeverity, model.MaxSeverity, s)
	}
	return nil
}
