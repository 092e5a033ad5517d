package cmd

import (
	"context"
	"fmt"

	"github.com/example/gymbook/internal/application/scheduler"
	"github.com/example/gymbook/internal/application/usecases"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/infrastructure/browser"
	"github.com/example/gymbook/internal/infrastructure/config"
	"github.com/example/gymbook/internal/infrastructure/journal"
	"github.com/sirupsen/logrus"
)

func newLogin(cfg config.Config, d booking.Driver, log logrus.FieldLogger) usecases.Login {
	return usecases.Login{
		Driver:         d,
		Selectors:      cfg.Selectors,
		URL:            cfg.LoginURL,
		Username:       cfg.Username,
		Password:       cfg.Password,
		Delay:          cfg.Delays.Login,
		ElementTimeout: cfg.Delays.ElementTimeout,
		Log:            log,
	}
}

func newFinder(cfg config.Config, d booking.Driver, log logrus.FieldLogger) usecases.EventFinder {
	return usecases.EventFinder{
		Driver:         d,
		Selectors:      cfg.Selectors,
		HomeURL:        cfg.HomeURL,
		Keyword:        cfg.EventKeyword,
		DateLayout:     cfg.DateLayout,
		PageLoadDelay:  cfg.Delays.PageLoad,
		EventOpenDelay: cfg.Delays.EventOpen,
		ElementTimeout: cfg.Delays.ElementTimeout,
		Log:            log,
	}
}

func newResolver(cfg config.Config, d booking.Driver, log logrus.FieldLogger) usecases.SlotResolver {
	return usecases.SlotResolver{
		Driver:    d,
		Selectors: cfg.Selectors,
		Labels:    cfg.Labels,
		Timing: usecases.Timing{
			Settle:         cfg.Delays.Settle,
			Rerender:       cfg.Delays.Rerender,
			ConfirmTimeout: cfg.Delays.ConfirmTimeout,
			ConfirmPoll:    cfg.Delays.ConfirmPoll,
			ElementTimeout: cfg.Delays.ElementTimeout,
		},
		Log: log,
	}
}

func newController(cfg config.Config, d booking.Driver, j booking.Journal, log logrus.FieldLogger) scheduler.Controller {
	return scheduler.Controller{
		Auth: newLogin(cfg, d, log),
		Cycle: usecases.BookClass{
			Schedule: cfg.Schedule,
			Finder:   newFinder(cfg, d, log),
			Resolver: newResolver(cfg, d, log),
			Log:      log,
		},
		Schedule: cfg.Schedule,
		Policy: scheduler.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			Delay:           cfg.Retry.Delay,
			NoEventDelay:    cfg.Retry.NoEventDelay,
			UnbookableDelay: cfg.Retry.UnbookableDelay,
		},
		RetryLogin:    cfg.Retry.Login,
		OpeningTime:   cfg.OpeningTime,
		Location:      cfg.Location,
		Journal:       j,
		Screens:       d,
		ScreenshotDir: cfg.ScreenshotDir,
		Log:           log,
	}
}

// runOnce opens a browser and the journal, performs one booking run and cleans up.
func runOnce(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (booking.Outcome, error) {
	j, err := journal.Open(ctx, cfg.HistoryDSN)
	if err != nil {
		return booking.Outcome{}, fmt.Errorf("open history: %w", err)
	}
	defer j.Close()

	sess, err := browser.Open(cfg.BrowserDriver, cfg.Headless)
	if err != nil {
		return booking.Outcome{}, err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.WithError(err).Warn("closing browser")
		}
	}()

	return newController(cfg, sess, j, log).Run(ctx)
}
