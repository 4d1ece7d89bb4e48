package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hatcher/todoai/app"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, plus the MCP endpoint when mcp.enabled is set",
	RunE:  runServe,
}

var serveMCP bool

func init() {
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve MCP over streamable HTTP")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, closeLog, err := setup(nil)
	if err != nil {
		return err
	}
	defer closeLog()
	if serveMCP {
		cfg.MCP.Enabled = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logs.Errorf("close resources: %v", err)
		}
	}()
	return a.Serve(ctx)
}
