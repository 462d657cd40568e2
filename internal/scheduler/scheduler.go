package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler reruns the availability computation on a cron spec while in
// daemon mode.
type Scheduler struct {
	cron *cron.Cron
	spec string
	job  func()
}

func New(loc *time.Location, spec string, job func()) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		spec: spec,
		job:  job,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, s.job); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (spec: %s)", s.spec)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}
