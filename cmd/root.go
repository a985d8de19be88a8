package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/keepsake-server/internal/config"
	"github.com/dtroode/keepsake-server/internal/logger"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "keepsake",
		Short: "Keepsake account and list server",
		Long: `Keepsake serves accounts with session tokens and per-user quote and
experience lists over HTTP and, optionally, gRPC.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = logger.New(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	serve := newServeCmd(a)
	root.AddCommand(serve, newMigrateCmd(a), newVersionCmd())

	// plain `keepsake` behaves like `keepsake serve`
	root.RunE = serve.RunE

	return root
}
