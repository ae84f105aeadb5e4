package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the service's background jobs on fixed intervals.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler in UTC
func NewScheduler() (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: scheduler}, nil
}

// RegisterCatalogStats schedules the catalog stats job on the given interval
func (s *Scheduler) RegisterCatalogStats(job *CatalogStatsJob, interval time.Duration) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := job.Run(ctx); err != nil {
				log.Printf("⚠️ [SCHEDULER] catalog stats job failed: %v", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule catalog stats job: %w", err)
	}
	return nil
}

// Start begins running registered jobs
func (s *Scheduler) Start() {
	s.scheduler.Start()
	log.Println("🚀 [SCHEDULER] Background jobs started")
}

// Stop shuts the scheduler down, waiting for running jobs
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
