// Package scheduler drives periodic discovery runs so the sample store keeps
// growing without manual triggers.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/omicsdash/biodisc/internal/errors"
	"github.com/omicsdash/biodisc/internal/service"
	"github.com/omicsdash/biodisc/internal/taxonomy"
)

// DefaultInterval is how often a scheduled sweep runs.
const DefaultInterval = 6 * time.Hour

// Scheduler runs a discovery sweep across all disease categories on a fixed
// interval. Failures are logged and the loop keeps going; the scheduler
// never takes the process down.
type Scheduler struct {
	svc      *service.DiscoveryService
	interval time.Duration
}

// New creates a scheduler over the discovery service.
func New(svc *service.DiscoveryService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{svc: svc, interval: interval}
}

// Run blocks until ctx is cancelled, performing one sweep per interval.
// The first sweep happens after one full interval, not at startup, so a
// restarting server does not immediately hammer the archive.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("scheduler started, interval %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs comprehensive discovery for every disease category.
func (s *Scheduler) sweep(ctx context.Context) {
	started := time.Now()

	for _, disease := range taxonomy.DiseaseFoci {
		if ctx.Err() != nil {
			return
		}
		result, err := s.svc.Comprehensive(ctx, string(disease), "")
		if err != nil {
			errors.LogAndContinue("scheduled discovery", err)
			continue
		}
		log.Printf("scheduled sweep for %s: %d data types discovered", disease, len(result.Results))
	}

	log.Printf("scheduled sweep complete in %s", time.Since(started).Round(time.Second))
}
