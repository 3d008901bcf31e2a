package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/internal/logger"
)

// BonusScheduler runs a refresher once shortly after start and then weekly
// at a fixed weekday and hour in local time.
type BonusScheduler struct {
	refresher    IBonusRefresher
	startupDelay time.Duration
	weekday      time.Weekday
	hour         int
	now          func() time.Time
}

func NewBonusScheduler(refresher IBonusRefresher, startupDelay time.Duration, weekday time.Weekday, hour int) *BonusScheduler {
	return &BonusScheduler{
		refresher:    refresher,
		startupDelay: startupDelay,
		weekday:      weekday,
		hour:         hour,
		now:          time.Now,
	}
}

// Start launches the schedule in a goroutine. The returned channel is closed
// once the loop has exited after ctx is cancelled.
func (s *BonusScheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx)
	}()
	return done
}

func (s *BonusScheduler) run(ctx context.Context) {
	timer := time.NewTimer(s.startupDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bonus scheduler stopped")
			return
		case <-timer.C:
			count := s.refresher.Refresh(ctx)
			next := nextWeeklyRun(s.now(), s.weekday, s.hour)
			logger.Info("Scheduled bonus refresh finished",
				zap.Int("written", count),
				zap.Time("next_run", next))
			timer.Reset(time.Until(next))
		}
	}
}

// nextWeeklyRun returns the first weekday/hour strictly after now
func nextWeeklyRun(now time.Time, weekday time.Weekday, hour int) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, days)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
