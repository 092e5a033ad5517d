package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/gymbook/internal/infrastructure/cron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Stay running and start a booking run on CRON_SPEC",
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

			trigger, err := cron.New(cfg.CronSpec, cfg.Location, log, func(ctx context.Context) {
				out, err := runOnce(ctx, cfg, log)
				entry := log.WithFields(logrus.Fields{"reason": out.Reason, "attempts": out.Attempts})
				if err != nil {
					entry.WithError(err).Error("scheduled run failed")
					return
				}
				entry.Info("scheduled run succeeded")
			})
			if err != nil {
				return err
			}

			trigger.Start(ctx)
			<-ctx.Done()
			trigger.Stop()
			return nil
		},
	}
}
