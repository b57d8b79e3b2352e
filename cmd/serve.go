package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/config"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/server"
)

var (
	serveAddr    string
	serveEnvFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the global check as an HTTP JSON API",
	Long: `Start an HTTP server exposing the global check.

Endpoints:
  POST /api/evaluate        inputs (JSON) -> result (JSON)
  POST /api/evaluate/csv    inputs (JSON) -> vertical load table (CSV)
  POST /api/evaluate/pdf    inputs (JSON) -> report (PDF)
  POST /api/evaluate/chart  inputs (JSON) -> load chart (PNG)
  POST /api/batch           workbook (multipart "file") -> summary workbook
  GET  /api/criteria        active criteria and structure presets
  GET  /healthz             liveness

Configuration is read from the environment and an optional .env file:
  GLOBALCHECK_ADDR, GLOBALCHECK_RATE_LIMIT, GLOBALCHECK_RATE_BURST,
  GLOBALCHECK_CRITERIA_FILE, GLOBALCHECK_STRUCTURE, GLOBALCHECK_DRIFT_LIMIT

Examples:
  globalcheck serve
  globalcheck serve --addr :9090 --env production.env`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveEnvFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return server.Run(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (overrides GLOBALCHECK_ADDR)")
	serveCmd.Flags().StringVar(&serveEnvFile, "env", ".env", "Environment file to load if present")
}
