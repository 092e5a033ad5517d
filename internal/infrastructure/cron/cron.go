package cron

import (
	"context"
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Trigger runs a job on a cron schedule. A trigger that fires while the previous
// run is still going is skipped.
type Trigger struct {
	engine *robfig.Cron
	id     robfig.EntryID
	spec   string
	loc    *time.Location
	log    logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(spec string, loc *time.Location, log logrus.FieldLogger, job func(ctx context.Context)) (*Trigger, error) {
	if loc == nil {
		loc = time.Local
	}
	engine := robfig.New(
		robfig.WithLocation(loc),
		robfig.WithChain(
			robfig.Recover(robfig.PrintfLogger(log)),
			robfig.SkipIfStillRunning(robfig.PrintfLogger(log)),
		),
	)
	t := &Trigger{engine: engine, spec: spec, loc: loc, log: log}
	t.ctx, t.cancel = context.WithCancel(context.Background())

	id, err := engine.AddFunc(spec, func() {
		log.WithField("spec", spec).Info("cron trigger fired")
		job(t.ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	t.id = id
	return t, nil
}

// Start schedules runs until ctx is done or Stop is called.
func (t *Trigger) Start(ctx context.Context) {
	stop := context.AfterFunc(ctx, t.cancel)
	go func() {
		<-t.ctx.Done()
		stop()
	}()
	t.engine.Start()
	t.log.WithFields(logrus.Fields{
		"spec": t.spec,
		"next": t.Next().Format(time.RFC3339),
	}).Info("scheduler started")
}

// Stop cancels a running job and waits for it to return.
func (t *Trigger) Stop() {
	t.cancel()
	<-t.engine.Stop().Done()
	t.log.Info("scheduler stopped")
}

// Next is the next fire time in the trigger's location.
func (t *Trigger) Next() time.Time {
	return t.nextAfter(time.Now())
}

func (t *Trigger) nextAfter(now time.Time) time.Time {
	return t.engine.Entry(t.id).Schedule.Next(now.In(t.loc))
}
