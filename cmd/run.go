package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Wait for the booking window and book today's class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			out, err := runOnce(ctx, cfg, log)
			entry := log.WithFields(logrus.Fields{"reason": out.Reason, "attempts": out.Attempts})
			if err != nil {
				entry.WithError(err).Error("booking run failed")
				return err
			}
			entry.Info("booking run succeeded")
			return nil
		},
	}
}
