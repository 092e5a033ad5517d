package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/example/gymbook/internal/infrastructure/journal"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history",
		Short: "List recent booking attempts from HISTORY_DSN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.HistoryDSN == "" {
				return fmt.Errorf("HISTORY_DSN is not set")
			}
			ctx := context.Background()
			j, err := journal.Open(ctx, cfg.HistoryDSN)
			if err != nil {
				return err
			}
			defer j.Close()

			recs, err := j.Recent(ctx, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range recs {
				fmt.Fprintf(w, "%s run=%s attempt=%d success=%t reason=%s took=%s detail=%q\n",
					r.StartedAt.In(cfg.Location).Format(time.RFC3339), r.RunID.String()[:8], r.Attempt, r.Success, r.Reason, r.Duration, r.Detail)
			}
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "number of attempts to show")
	return c
}
