package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/example/gymbook/internal/clock"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/internaltypes"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Authenticator interface {
	Execute(ctx context.Context) error
}

// Cycle is one search-and-book attempt. It returns an error only when ctx is done.
type Cycle interface {
	Execute(ctx context.Context, now time.Time) (booking.AttemptResult, error)
}

type Screenshotter interface {
	Screenshot(ctx context.Context, path string) error
}

type RetryPolicy struct {
	MaxAttempts     int // 0 retries until success or cancellation
	Delay           time.Duration
	NoEventDelay    time.Duration
	UnbookableDelay time.Duration
}

func (p RetryPolicy) Infinite() bool { return p.MaxAttempts == 0 }

// DelayFor picks the wait before the cycle after r.
func (p RetryPolicy) DelayFor(r booking.AttemptResult) time.Duration {
	if r.Reason == booking.ReasonEventNotFound {
		if p.NoEventDelay > 0 {
			return p.NoEventDelay
		}
	} else if p.UnbookableDelay > 0 {
		return p.UnbookableDelay
	}
	return p.Delay
}

// Controller drives a whole run: wait for the booking window to open, log in once
// and repeat booking cycles under the retry policy.
type Controller struct {
	Auth     Authenticator
	Cycle    Cycle
	Schedule booking.DaySchedule
	Policy   RetryPolicy
	// RetryLogin turns a failed login into a failed attempt instead of ending the run.
	RetryLogin bool

	OpeningTime string
	Location    *time.Location
	Clock       clock.Clock

	Journal       booking.Journal
	Screens       Screenshotter
	ScreenshotDir string

	Log logrus.FieldLogger
}

func (c Controller) Run(ctx context.Context) (booking.Outcome, error) {
	c = c.withDefaults()
	runID := uuid.New()
	log := c.Log.WithField("run_id", runID.String())

	now := c.Clock.Now().In(c.Location)
	class, ok := c.Schedule.Lookup(now.Weekday())
	if !ok {
		log.WithField("day", now.Weekday().String()).Info("no class scheduled today")
		return booking.Outcome{Reason: booking.ReasonNoClassToday}, nil
	}
	log.WithField("class", class.String()).Info("class scheduled today")

	if err := c.waitForOpening(ctx, now, log); err != nil {
		return booking.Outcome{Reason: booking.ReasonError}, err
	}

	loggedIn := false
	if !c.RetryLogin {
		if err := c.Auth.Execute(ctx); err != nil {
			return booking.Outcome{Reason: booking.ReasonLoginFailed}, fmt.Errorf("login: %w", err)
		}
		loggedIn = true
	}

	for attempt := 1; ; attempt++ {
		alog := log.WithField("attempt", attempt)
		started := c.Clock.Now()

		var res booking.AttemptResult
		if !loggedIn {
			if err := c.Auth.Execute(ctx); err != nil {
				if ctx.Err() != nil {
					return booking.Outcome{Reason: booking.ReasonError, Attempts: attempt}, ctx.Err()
				}
				res = booking.Failed(booking.ReasonLoginFailed, err)
			} else {
				loggedIn = true
			}
		}
		if loggedIn {
			var err error
			res, err = c.cycle(ctx)
			if err != nil {
				return booking.Outcome{Reason: booking.ReasonError, Attempts: attempt}, err
			}
		}

		c.record(ctx, alog, runID, attempt, started, res)
		if res.Success {
			alog.WithField("reason", res.Reason).Info("run finished")
			return booking.Outcome{Reason: res.Reason, Attempts: attempt}, nil
		}

		entry := alog.WithField("reason", res.Reason)
		if res.Err != nil {
			entry = entry.WithError(res.Err)
		}
		entry.Warn("attempt failed")
		c.screenshot(ctx, alog, attempt, res.Reason)

		if !c.Policy.Infinite() && attempt >= c.Policy.MaxAttempts {
			return booking.Outcome{Reason: res.Reason, Attempts: attempt},
				fmt.Errorf("%w: %d attempts, last: %s", internaltypes.ErrAttemptsExhausted, attempt, res.Reason)
		}
		wait := c.Policy.DelayFor(res)
		alog.Infof("retrying in %s", wait)
		if err := c.Clock.Sleep(ctx, wait); err != nil {
			return booking.Outcome{Reason: res.Reason, Attempts: attempt}, err
		}
	}
}

// cycle runs one attempt inside a recovery boundary.
func (c Controller) cycle(ctx context.Context) (res booking.AttemptResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = booking.Failed(booking.ReasonError, fmt.Errorf("panic: %v", p)), nil
		}
	}()
	res, err = c.Cycle.Execute(ctx, c.Clock.Now().In(c.Location))
	if err != nil {
		if ctx.Err() != nil {
			return booking.AttemptResult{}, ctx.Err()
		}
		return booking.Failed(booking.ReasonError, err), nil
	}
	return res, nil
}

func (c Controller) waitForOpening(ctx context.Context, now time.Time, log logrus.FieldLogger) error {
	if c.OpeningTime == "" {
		return nil
	}
	minutes, err := booking.ParseClock(c.OpeningTime)
	if err != nil {
		return fmt.Errorf("opening time: %w", err)
	}
	open := time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, c.Location)
	if !now.Before(open) {
		return nil
	}
	wait := open.Sub(now)
	log.WithField("phase", "waiting").Infof("booking opens at %s, waiting %s", c.OpeningTime, wait.Round(time.Second))
	return c.Clock.Sleep(ctx, wait)
}

func (c Controller) record(ctx context.Context, log logrus.FieldLogger, runID uuid.UUID, attempt int, started time.Time, res booking.AttemptResult) {
	rec := booking.AttemptRecord{
		RunID:     runID,
		Attempt:   attempt,
		StartedAt: started,
		Duration:  c.Clock.Now().Sub(started),
		Success:   res.Success,
		Reason:    res.Reason,
	}
	switch {
	case res.Err != nil:
		rec.Detail = res.Err.Error()
	case res.Event != nil:
		rec.Detail = res.Event.Title
	}
	if err := c.Journal.Record(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Warn("could not journal attempt")
	}
}

func (c Controller) screenshot(ctx context.Context, log logrus.FieldLogger, attempt int, reason booking.Reason) {
	if c.ScreenshotDir == "" || c.Screens == nil {
		return
	}
	path := filepath.Join(c.ScreenshotDir, fmt.Sprintf("attempt-%02d-%s.png", attempt, reason))
	if err := c.Screens.Screenshot(ctx, path); err != nil {
		log.WithError(err).Warn("could not save screenshot")
		return
	}
	log.WithField("path", path).Debug("saved screenshot")
}

func (c Controller) withDefaults() Controller {
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Journal == nil {
		c.Journal = booking.NopJournal{}
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return c
}
