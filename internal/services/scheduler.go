package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"eventmaster/internal/domain"
)

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		logger: logger,
	}
}

// ScheduleInterval registers job to run every interval, rounded down to whole seconds.
func (s *Scheduler) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := max(1, int(interval.Seconds()))
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

// ScheduleUploadPruning forgets finished upload jobs older than retention, checking every interval.
func (s *Scheduler) ScheduleUploadPruning(files domain.FileService, retention, interval time.Duration) (cron.EntryID, error) {
	return s.ScheduleInterval(interval, func() {
		if n := files.PruneUploads(retention); n > 0 {
			s.logger.Info("pruned finished uploads", "count", n)
		}
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
