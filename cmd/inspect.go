package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/gymbook/internal/application/usecases"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/infrastructure/browser/snapshot"
	"github.com/example/gymbook/internal/infrastructure/config"
	"github.com/example/gymbook/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

// inspectOptions choose the day and class window a saved page is checked against.
type inspectOptions struct {
	date   string
	window string
}

func (o inspectOptions) resolve(cfg config.Config) (time.Time, booking.TimeWindow, bool, error) {
	day := time.Now().In(cfg.Location)
	if o.date != "" {
		d, err := time.ParseInLocation("2006-01-02", o.date, cfg.Location)
		if err != nil {
			return time.Time{}, booking.TimeWindow{}, false, fmt.Errorf("invalid --date (want YYYY-MM-DD)")
		}
		day = d
	}
	if o.window != "" {
		w, err := booking.ParseWindow(o.window)
		if err != nil {
			return time.Time{}, booking.TimeWindow{}, false, fmt.Errorf("invalid --window: %w", err)
		}
		return day, w, true, nil
	}
	w, ok := cfg.Schedule.Lookup(day.Weekday())
	return day, w, ok, nil
}

func newInspectCmd() *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dry-run event and slot matching against a saved page",
	}
	cmd.PersistentFlags().StringVar(&opts.date, "date", "", "day to match, YYYY-MM-DD (default today)")
	cmd.PersistentFlags().StringVar(&opts.window, "window", "", "class window HH:MM-HH:MM (default from the schedule)")

	cmd.AddCommand(&cobra.Command{
		Use:   "events <page.html>",
		Short: "List events on a saved events page and mark the one that would be opened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return inspectEvents(cmd.Context(), cmd.OutOrStdout(), cfg, opts, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "slots <page.html>",
		Short: "Show how the slots on a saved event page resolve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return inspectSlots(cmd.Context(), cmd.OutOrStdout(), cfg, opts, args[0])
		},
	})
	return cmd
}

func inspectEvents(ctx context.Context, w io.Writer, cfg config.Config, opts inspectOptions, path string) error {
	day, class, ok, err := opts.resolve(cfg)
	if err != nil {
		return err
	}
	d, err := snapshot.LoadFile(path)
	if err != nil {
		return err
	}
	f := newFinder(cfg, d, logger.Discard())
	events, err := f.ListEvents(ctx)
	if err != nil {
		return err
	}

	today := f.Today(day)
	fmt.Fprintf(w, "date=%s keyword=%q", today, cfg.EventKeyword)
	if !ok {
		fmt.Fprintf(w, " class=none (no class on %s)\n", day.Weekday())
	} else {
		fmt.Fprintf(w, " class=%q\n", class.String())
	}

	var pick *usecases.EventListing
	if ok {
		if m := usecases.MatchEvents(events, cfg.EventKeyword, today, class); len(m) > 0 {
			pick = &m[0]
		}
	}
	for _, ev := range events {
		mark := " "
		if pick != nil && ev.Index == pick.Index {
			mark = "*"
		}
		fmt.Fprintf(w, "%s #%d %q date=%s window=%q\n", mark, ev.Index, ev.Title, ev.Date, ev.Window.String())
	}
	if ok && pick == nil {
		fmt.Fprintln(w, "no event matches")
	}
	return nil
}

func inspectSlots(ctx context.Context, w io.Writer, cfg config.Config, opts inspectOptions, path string) error {
	_, class, ok, err := opts.resolve(cfg)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no class scheduled that day; pass --window")
	}
	d, err := snapshot.LoadFile(path)
	if err != nil {
		return err
	}
	r := newResolver(cfg, d, logger.Discard())

	slots, err := d.QueryAll(ctx, cfg.Selectors.Slot)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "class=%q slots=%d\n", class.String(), len(slots))
	for i, s := range slots {
		text := ""
		if el, found, err := booking.First(ctx, s, cfg.Selectors.SlotTime); err == nil && found {
			t, _ := el.Text(ctx)
			text = strings.TrimSpace(t)
		}
		fmt.Fprintf(w, "  #%d %q\n", i+1, text)
	}

	m, err := r.Resolve(ctx, slots, class)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "target %s: %s\n", class, m.State)
	return nil
}
