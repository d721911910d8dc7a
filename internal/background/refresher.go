// Package background keeps reminders alive across restarts. Scheduled
// reminders only exist in process memory, so a periodic pass re-derives
// them from the persisted list: it rolls overdue recurring tasks forward
// and re-schedules daily tasks whose handles have gone stale.
package background

import (
	"context"
	"fmt"
	"time"

	"github.com/duetick/duetick/internal/logging"
	"github.com/duetick/duetick/internal/model"
	"github.com/duetick/duetick/internal/notify"
	"github.com/duetick/duetick/internal/recur"
	"github.com/duetick/duetick/internal/storage"
)

// DefaultInterval matches the hourly cadence the refresh job registers
// with.
const DefaultInterval = time.Hour

// Refresher is the periodic refresh job. All collaborators are injected;
// it holds no shared state with the interactive session beyond the
// persisted list itself.
type Refresher struct {
	adapter  storage.Store
	sched    notify.Scheduler
	log      *logging.Logger
	interval time.Duration
	now      func() time.Time
}

func New(adapter storage.Store, sched notify.Scheduler, log *logging.Logger, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		adapter:  adapter,
		sched:    sched,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until the context is cancelled. Each tick failure is logged
// and the loop keeps going.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.log.Error("background", fmt.Sprintf("refresh pass: %v", err))
			}
		}
	}
}

// RunOnce performs a single refresh pass: load, resolve rollovers, write
// the resolved list back, and re-schedule reminder pairs for daily tasks
// that are still due in the future but hold no live handles. Task content
// other than the notification handles is never modified here beyond what
// the rollover rule itself does.
func (r *Refresher) RunOnce(ctx context.Context) error {
	tasks, err := r.adapter.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil
	}

	now := r.now()
	before := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		before[t.ID] = t
	}
	tasks = recur.Resolve(tasks, now)

	rescheduled := 0
	for i := range tasks {
		t := &tasks[i]
		// Rollover invalidates the pair aimed at the old due date; any
		// still-armed in-process entries for it must not fire.
		if old, ok := before[t.ID]; ok && old.HasLiveNotifications() && !t.HasLiveNotifications() {
			r.sched.Cancel(old.WarnNotificationID)
			r.sched.Cancel(old.FinalNotificationID)
		}
		if t.Repeat != model.RepeatDaily || t.IsComplete {
			continue
		}
		if !t.DueDate.After(now) || t.HasLiveNotifications() {
			continue
		}
		if err := notify.Reschedule(r.sched, t); err != nil {
			r.log.Warn("background", fmt.Sprintf("reschedule task %s: %v", t.ID, err))
			continue
		}
		rescheduled++
	}

	if err := r.adapter.Save(ctx, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if rescheduled > 0 {
		r.log.Info("background", fmt.Sprintf("re-scheduled reminders for %d daily task(s)", rescheduled))
	}
	return nil
}
