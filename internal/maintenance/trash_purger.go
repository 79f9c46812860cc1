// Package maintenance runs background housekeeping jobs on a cron schedule.
package maintenance

import (
	"context"
	"time"

	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// TrashPurger permanently removes tasks that have stayed in the trash state
// longer than the retention period.
type TrashPurger struct {
	db        *database.DB
	tasks     *store.TaskStore
	retention time.Duration
	now       func() time.Time
	cron      *cron.Cron
}

// NewTrashPurger creates a new purger. It does nothing until Start is called.
func NewTrashPurger(db *database.DB, tasks *store.TaskStore, retention time.Duration) *TrashPurger {
	return &TrashPurger{
		db:        db,
		tasks:     tasks,
		retention: retention,
		now:       time.Now,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Start schedules the purge with a standard cron expression or descriptor
// such as "@daily".
func (p *TrashPurger) Start(schedule string) error {
	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return err
	}
	log.Info().Str("schedule", schedule).Dur("retention", p.retention).Msg("Starting trash purger...")
	p.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running purge to finish or ctx to
// expire.
func (p *TrashPurger) Stop(ctx context.Context) {
	done := p.cron.Stop()
	select {
	case <-done.Done():
		log.Info().Msg("Stopped trash purger.")
	case <-ctx.Done():
		log.Warn().Msg("Trash purger still running at shutdown")
	}
}

// PurgeOnce removes expired trash and returns the number of deleted tasks.
func (p *TrashPurger) PurgeOnce(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.retention)
	return p.tasks.PurgeTrash(ctx, p.db, cutoff)
}

func (p *TrashPurger) run() {
	n, err := p.PurgeOnce(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("Trash purge failed")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Purged trashed tasks")
	}
}
