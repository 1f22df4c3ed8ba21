package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// questionLeadHours is how long before publish time the vacation question
// goes out.
const questionLeadHours = 3

// DailyScheduler registers the two recurring triggers: the vacation
// question and the publish-time fallback. The cron engine is rebuilt on
// every process start, so registration is idempotent across restarts.
type DailyScheduler struct {
	cronEngine    *cron.Cron
	publisher     *app.PublisherService
	vacation      *app.VacationService
	logger        *logrus.Entry
	publishHour   int
	publishMinute int
}

func NewDailyScheduler(
	publisher *app.PublisherService,
	vacation *app.VacationService,
	logger *logrus.Entry,
	publishHour int,
	publishMinute int,
) *DailyScheduler {
	return &DailyScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		publisher:     publisher,
		vacation:      vacation,
		logger:        logger.WithField("component", "daily_scheduler"),
		publishHour:   publishHour,
		publishMinute: publishMinute,
	}
}

func (s *DailyScheduler) Start() error {
	s.logger.Info("Starting daily scheduler...")

	// Publish-time fallback: posts if the boss already answered but the
	// immediate publish after the answer never happened.
	publishSpec := fmt.Sprintf("%d %d * * *", s.publishMinute, s.publishHour)
	_, err := s.cronEngine.AddFunc(publishSpec, func() {
		s.logger.Info("Cron job triggered: daily publish")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.publisher.PublishIfDue(ctx, time.Now()); err != nil {
			s.logger.WithError(err).Error("Daily publish job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add daily publish cron job: %w", err)
	}

	questionHour := (s.publishHour - questionLeadHours + 24) % 24
	questionSpec := fmt.Sprintf("%d %d * * *", s.publishMinute, questionHour)
	_, err = s.cronEngine.AddFunc(questionSpec, func() {
		s.logger.Info("Cron job triggered: vacation question")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.vacation.AskQuestion(ctx); err != nil {
			s.logger.WithError(err).Error("Vacation question job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add vacation question cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Daily scheduler started. Publish time: %02d:%02d, question time: %02d:%02d",
		s.publishHour, s.publishMinute, questionHour, s.publishMinute)
	return nil
}

func (s *DailyScheduler) Stop() {
	s.logger.Info("Stopping daily scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Daily scheduler gracefully stopped.")
}
