package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler fires an aggregation request at every UTC midnight. The run targets the
// day that just ended, so a full day of events is always in scope.
type Scheduler struct {
	dispatcher *Dispatcher
	log        *zap.SugaredLogger
}

func NewScheduler(dispatcher *Dispatcher, logger *zap.Logger) *Scheduler {
	return &Scheduler{dispatcher: dispatcher, log: logger.Sugar()}
}

// Start runs the midnight loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		for {
			now := time.Now().UTC()
			next := DayOf(now).Add(24 * time.Hour)
			timer := time.NewTimer(next.Sub(now))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case fired := <-timer.C:
				ended := DayOf(fired.UTC().Add(-time.Hour))
				s.log.Infof("scheduling daily aggregation for %s", ended.Format(dayFormat))
				if err := s.dispatcher.PublishAggregate(ended); err != nil {
					s.log.Errorf("publish daily aggregation: %v", err)
				}
			}
		}
	}()
}
