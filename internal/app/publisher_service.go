// internal/app/publisher_service.go
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/domain/day"
	domainTelegram "github.com/GreatBrite/game-counter-helper/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// TemplatePlaceholder is the integer slot in the daily message template.
// Config validation requires exactly this token in MESSAGE_TEMPLATE.
const TemplatePlaceholder = "{}"

// PublisherService sends the daily counter post to the channel exactly once
// per date. It refuses to post before the vacation question is answered and
// never re-posts once message_sent is recorded.
type PublisherService struct {
	dayRepo         day.Repository
	telegramClient  domainTelegram.Client
	channelID       string
	startDate       time.Time
	messageTemplate string
	vacationHashtag string
	logger          *logrus.Entry
}

func NewPublisherService(
	dayRepo day.Repository,
	telegramClient domainTelegram.Client,
	channelID string,
	startDate time.Time,
	messageTemplate string,
	vacationHashtag string,
	logger *logrus.Entry,
) *PublisherService {
	return &PublisherService{
		dayRepo:         dayRepo,
		telegramClient:  telegramClient,
		channelID:       channelID,
		startDate:       startDate,
		messageTemplate: messageTemplate,
		vacationHashtag: vacationHashtag,
		logger:          logger.WithField("component", "publisher"),
	}
}

// PublishIfDue publishes the counter post for the date if an answer exists
// and nothing was published for that date yet. Both the publish-time cron
// job and the same-day answer handler call it; the message_sent flag keeps
// the two paths from double-posting.
func (s *PublisherService) PublishIfDue(ctx context.Context, date time.Time) error {
	logCtx := s.logger.WithField("date", day.Key(date))

	rec, err := s.dayRepo.EnsureRecord(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load day record: %w", err)
	}

	if !rec.Answered {
		logCtx.Info("Vacation question is still unanswered, not publishing")
		return nil
	}
	if rec.MessageSent {
		logCtx.Info("Daily post already published, skipping")
		return nil
	}

	text := renderTemplate(s.messageTemplate, s.DayNumber(date))
	if rec.IsVacation() {
		text += s.vacationHashtag
		logCtx.Info("Appending vacation hashtag to the daily post")
	}

	if err := s.telegramClient.SendMessage(s.channelID, text, nil); err != nil {
		logCtx.WithError(err).Error("Failed to send daily post to the channel")
		return fmt.Errorf("failed to send daily post: %w", err)
	}
	logCtx.WithField("text", text).Info("Daily post published")

	if err := s.dayRepo.MarkMessageSent(ctx, date); err != nil {
		logCtx.WithError(err).Error("Failed to mark daily post as sent")
	}
	return nil
}

// DayNumber is the 1-based offset of the date from the campaign start date.
func (s *PublisherService) DayNumber(date time.Time) int {
	return daysBetween(s.startDate, date) + 1
}

// daysBetween counts whole calendar days from start to end, ignoring the
// time of day and any DST-induced day lengths.
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s) / (24 * time.Hour))
}

func renderTemplate(template string, dayNumber int) string {
	return strings.Replace(template, TemplatePlaceholder, strconv.Itoa(dayNumber), 1)
}
