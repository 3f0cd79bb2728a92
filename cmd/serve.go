package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/records"
	"github.com/helmcode/triage-ai/pkg/server"
)

var servePort int

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the triage API over HTTP",
		Long: `Start the JSON API. Patients analyzed through POST /api/symptoms are kept in
memory for the lifetime of the process and feed the queue and dashboard.

Examples:
  triage-ai serve --port 8080
  TRIAGE_RULES=/etc/triage/rules.yaml triage-ai serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntVar(&servePort, "port", cfg.Port, "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	an, err := loadAnalyzer()
	if err != nil {
		return err
	}
	slog.Info("Rules loaded",
		"rules", rulesOrDefault(),
		"processing_time", an.Rules.Triage.ProcessingTime,
		"max_upload_mb", cfg.MaxUploadMB,
	)

	h := server.NewHandler(an, records.NewStore(), cfg.MaxUploadBytes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, fmt.Sprintf(":%d", servePort), server.NewRouter(h))
}

func rulesOrDefault() string {
	if rulesPath == "" {
		return "built-in"
	}
	return rulesPath
}
