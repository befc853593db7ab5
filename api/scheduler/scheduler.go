package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/session"
)

// EndFunc releases everything an evicted operator holds
type EndFunc func(ctx context.Context, op *session.Operator)

// Scheduler runs the periodic session housekeeping
type Scheduler struct {
	cron     *cron.Cron
	Registry *session.Registry
	TTL      time.Duration
	Interval time.Duration
	End      EndFunc
	// Observe receives the live session count after each sweep
	Observe func(live int)
}

// NewScheduler creates a scheduler sweeping registry every interval
func NewScheduler(registry *session.Registry, ttl, interval time.Duration, end EndFunc) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		Registry: registry,
		TTL:      ttl,
		Interval: interval,
		End:      end,
	}
}

// Start registers the sweep job and starts the cron runner
func (s *Scheduler) Start() error {
	if s.Interval <= 0 {
		return fmt.Errorf("invalid sweep interval %s", s.Interval)
	}
	schedule := fmt.Sprintf("@every %s", s.Interval)
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		zap.S().Errorw("failed to register session sweep job", "error", err)
		return err
	}

	s.cron.Start()
	zap.S().Infow("Session scheduler started", "interval", s.Interval, "ttl", s.TTL)
	return nil
}

// Stop waits for a running sweep and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Session scheduler stopped")
}

// Sweep evicts idle and expired operator sessions
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	evicted := s.Registry.Sweep(s.TTL)
	for _, op := range evicted {
		if s.End != nil {
			s.End(ctx, op)
		}
	}
	live := s.Registry.Len()
	if s.Observe != nil {
		s.Observe(live)
	}
	if len(evicted) > 0 {
		zap.S().Infow("evicted operator sessions", "evicted", len(evicted), "live", live)
	}
}
