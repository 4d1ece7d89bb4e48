package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hatcher/todoai/app"
	"github.com/hatcher/todoai/config"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/hatcher/todoai/pkg/mcpx"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the todo tools as an MCP server",
	RunE:  runMCP,
}

var mcpTransport string

func init() {
	mcpCmd.Flags().StringVarP(&mcpTransport, "transport", "t", "", "stdio or http, overrides mcp.transport")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, closeLog, err := setup(func(c *config.Config) {
		if mcpTransport != "" {
			c.MCP.Transport = mcpTransport
		}
		// stdout carries the protocol on stdio.
		if c.MCP.Transport == mcpx.TransportStdio && (c.Log.Output == "" || c.Log.Output == logs.Stdout) {
			c.Log.Output = logs.Stderr
		}
	})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.ServeMCP(ctx)
}
