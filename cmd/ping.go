package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/gymbook/internal/application/usecases"
	"github.com/example/gymbook/internal/infrastructure/browser"
	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Log in and open the events list without booking",
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

			sess, err := browser.Open(cfg.BrowserDriver, cfg.Headless)
			if err != nil {
				return err
			}
			defer sess.Close()

			ping := usecases.PingPortal{Login: newLogin(cfg, sess, log), Finder: newFinder(cfg, sess, log)}
			n, err := ping.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "portal ok, %d events listed\n", n)
			return nil
		},
	}
}
