package scheduler

import (
	"fmt"
	"log"
	"time"

	"TaifexDaily/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily ingestion on a cron schedule for long-lived
// deployments. The default deployment model is one external invocation per
// day; this daemon mode exists for hosts without a system scheduler.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Loc      *time.Location
}

// NewScheduler creates a Scheduler; runs are timed in loc.
func NewScheduler(p *pipeline.Pipeline, loc *time.Location) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Pipeline: p,
		Loc:      loc,
	}
}

// RegisterDaily registers the daily ingestion task.
func (s *Scheduler) RegisterDaily(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) dailyTask() {
	today := time.Now().In(s.Loc)
	outcome, err := s.Pipeline.Run(today)
	if err != nil {
		log.Printf("[ERROR] scheduled run for %s: %s: %v",
			today.Format("2006-01-02"), outcome, err)
		return
	}
	log.Printf("[INFO] scheduled run for %s: %s", today.Format("2006-01-02"), outcome)
}
