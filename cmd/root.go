package cmd

import (
	"fmt"
	"os"

	"github.com/example/gymbook/internal/infrastructure/config"
	"github.com/example/gymbook/internal/infrastructure/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	run := newRunCmd()
	root := &cobra.Command{
		Use:           "gymbook",
		Short:         "Books today's fitness class slot on the university gym portal",
		Args:          cobra.NoArgs,
		RunE:          run.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(run)
	root.AddCommand(newDaemonCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newInstallCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.Environment), nil
}
