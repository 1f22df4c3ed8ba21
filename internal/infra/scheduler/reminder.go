package scheduler

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ReminderScheduler runs one-shot callbacks keyed by job name. Scheduling a
// key that already has a pending timer replaces it, so at most one callback
// is ever pending per key.
type ReminderScheduler struct {
	logger *logrus.Entry

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewReminderScheduler(logger *logrus.Entry) *ReminderScheduler {
	return &ReminderScheduler{
		logger: logger.WithField("component", "reminder_scheduler"),
		timers: make(map[string]*time.Timer),
	}
}

// ScheduleOnce arms fn to run once after delay, replacing any pending timer
// under the same key.
func (s *ReminderScheduler) ScheduleOnce(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		s.logger.WithField("job", key).Debug("Replacing pending one-shot job")
	}

	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
	s.logger.WithField("job", key).Infof("One-shot job scheduled to run in %s", delay)
}

// StopAll cancels every pending timer. Called on shutdown.
func (s *ReminderScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
	s.logger.Info("All one-shot jobs cancelled")
}
