// Package scheduler re-runs feed generation on a cron schedule.
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Run executes job immediately, then on every tick of the cron
// schedule, blocking forever. A tick that arrives while the previous
// run is still in progress is skipped.
func Run(schedule string, job func()) error {
	var running sync.Mutex

	guarded := func() {
		if !running.TryLock() {
			slog.Warn("Previous run still in progress, skipping tick")
			return
		}
		defer running.Unlock()
		job()
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, guarded); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	slog.Info("Watch mode started", "schedule", schedule)
	guarded()

	c.Run()
	return nil
}
