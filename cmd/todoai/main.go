// Package main is the todoai command: the todo HTTP API, the AI helpers and
// the MCP tool server.
package main

import (
	"os"

	"github.com/hatcher/todoai/config"
	"github.com/hatcher/todoai/pkg/logs"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "todoai",
	Short:         "Todo service with AI helpers and an MCP tool server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logs.Errorf("%v", err)
		os.Exit(1)
	}
}

// setup loads the config and initializes logging. The returned func closes
// the log file, if any.
func setup(adjust func(*config.Config)) (*config.Config, func() error, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	closeLog, err := logs.InitLogger(cfg.Log, "todoai.log")
	if err != nil {
		return nil, nil, err
	}
	return cfg, closeLog, nil
}
