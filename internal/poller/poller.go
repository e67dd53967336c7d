// Package poller runs the fixed-interval job that turns due tasks into
// outbound calls.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"callminder/internal/model"
	"callminder/internal/store"
)

// TaskStore is the slice of the store the poller consumes.
type TaskStore interface {
	FindDue(ctx context.Context, asOf time.Time) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id string, status model.Status, extra *store.Extra) error
}

// Notifier places an outbound call for one task and returns the provider's
// call reference.
type Notifier interface {
	PlaceCall(phone, taskID, title, name string) (string, error)
}

// Poller checks for due tasks once per interval and places their calls.
type Poller struct {
	store    TaskStore
	notifier Notifier
	location *time.Location
	interval time.Duration
	cron     *cron.Cron
	log      *logrus.Logger
	now      func() time.Time
}

// New creates a poller. interval is how often due tasks are checked;
// SkipIfStillRunning keeps a slow tick from overlapping the next one.
func New(taskStore TaskStore, notifier Notifier, loc *time.Location, interval time.Duration, log *logrus.Logger) *Poller {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
	)
	return &Poller{
		store:    taskStore,
		notifier: notifier,
		location: loc,
		interval: interval,
		cron:     c,
		log:      log,
		now:      time.Now,
	}
}

// Start registers the polling job and starts the scheduler loop.
func (p *Poller) Start() error {
	spec := fmt.Sprintf("@every %ds", int(p.interval.Seconds()))
	_, err := p.cron.AddFunc(spec, func() {
		p.Tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule poll job: %w", err)
	}
	p.cron.Start()
	p.log.WithField("interval", p.interval).Info("due-task poller started")
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (p *Poller) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.log.Info("due-task poller stopped")
}

// Tick fetches tasks due in the current minute and places a call for each.
// Tasks are processed independently so one slow or failing placement cannot
// block the rest of the batch.
func (p *Poller) Tick(ctx context.Context) {
	now := p.now().In(p.location)

	tasks, err := p.store.FindDue(ctx, now)
	if err != nil {
		p.log.WithError(err).Error("find due tasks")
		return
	}
	if len(tasks) == 0 {
		return
	}

	p.log.WithField("count", len(tasks)).Info("processing due tasks")

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task model.Task) {
			defer wg.Done()
			p.process(ctx, task)
		}(task)
	}
	wg.Wait()
}

// process places the call for a single task and records the outcome.
// A failed placement moves the task to retry; it becomes eligible again on
// the very next tick, with no backoff.
func (p *Poller) process(ctx context.Context, task model.Task) {
	callSID, err := p.notifier.PlaceCall(task.Phone, task.ID, task.Title, task.Name)
	if err != nil {
		p.log.WithError(err).WithField("task_id", task.ID).Warn("call placement failed, task set to retry")
		if uerr := p.store.UpdateStatus(ctx, task.ID, model.StatusRetry, &store.Extra{LastError: err.Error()}); uerr != nil {
			p.log.WithError(uerr).WithField("task_id", task.ID).Error("mark task retry")
		}
		return
	}

	if uerr := p.store.UpdateStatus(ctx, task.ID, model.StatusCalled, &store.Extra{CallSID: callSID}); uerr != nil {
		p.log.WithError(uerr).WithField("task_id", task.ID).Error("mark task called")
		return
	}

	p.log.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"call_sid": callSID,
	}).Info("call placed")
}
