package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"School-Administration-System/repository"
)

// The scheduled run fires a few minutes after the deadline so the
// deadline gate inside the sweeper is normally a no-op.
const sweepDelayMinutes = 5

// SweepScheduler owns the daily cron entry for the compliance sweeper.
// Changing the policy deadline is a control-plane action handled here:
// the policy handler calls Reschedule and the entry is rebuilt from the
// stored deadline.
type SweepScheduler struct {
	cron     *cron.Cron
	sweeper  *Sweeper
	policies repository.PolicyRepository

	mu      sync.Mutex
	entryID cron.EntryID
}

func NewSweepScheduler(sweeper *Sweeper, policies repository.PolicyRepository, loc *time.Location) *SweepScheduler {
	return &SweepScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		sweeper:  sweeper,
		policies: policies,
	}
}

func (s *SweepScheduler) Start() error {
	if err := s.schedule(); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *SweepScheduler) Stop() {
	s.cron.Stop()
}

// Reschedule rebuilds the cron entry from the currently stored policy
// deadline. Called after a policy update that changed the deadline.
func (s *SweepScheduler) Reschedule() error {
	return s.schedule()
}

func (s *SweepScheduler) schedule() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	policy, err := s.policies.GetSettings(ctx)
	if err != nil {
		return err
	}

	spec, err := cronSpecAfterDeadline(policy.DeadlineTime, sweepDelayMinutes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	s.entryID, err = s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := s.sweeper.Run(ctx, false); err != nil {
			log.Printf("[sweeper] scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	log.Printf("[sweeper] scheduled daily at %s + %d min (cron %q)", policy.DeadlineTime, sweepDelayMinutes, spec)
	return nil
}

// cronSpecAfterDeadline turns "18:00" into a daily cron spec a few
// minutes past the deadline, e.g. "5 18 * * *".
func cronSpecAfterDeadline(deadline string, delayMinutes int) (string, error) {
	parts := strings.SplitN(deadline, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid deadline time %q", deadline)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid deadline time %q", deadline)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid deadline time %q", deadline)
	}

	minute += delayMinutes
	if minute >= 60 {
		minute -= 60
		hour++
	}
	if hour >= 24 {
		// Deadlines close to midnight still run the same day.
		hour = 23
		minute = 59
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
