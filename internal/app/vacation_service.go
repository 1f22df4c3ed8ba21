// internal/app/vacation_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/domain/day"
	domainTelegram "github.com/GreatBrite/game-counter-helper/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// ErrNotAuthorized is returned when a sender other than the boss tries to
// answer the vacation question or run a command.
var ErrNotAuthorized = errors.New("sender is not authorized as the boss")

// Callback button uniques for the vacation question. The payload carried
// with either button is the date key the answer applies to.
const (
	BtnUniqueVacationYes = "vacation_yes"
	BtnUniqueVacationNo  = "vacation_no"
)

// reminderDelay is how long the boss has to answer before the single
// follow-up prompt is sent.
const reminderDelay = time.Hour

// ReminderScheduler arms one-shot callbacks. Scheduling an already-pending
// key replaces the previous timer.
type ReminderScheduler interface {
	ScheduleOnce(key string, delay time.Duration, fn func())
}

// Answer is a parsed button press: which choice, for which date.
type Answer struct {
	IsVacation bool
	Date       time.Time
}

// VacationService drives the ask / remind / finalize interaction with the
// boss for a given date.
type VacationService struct {
	dayRepo        day.Repository
	telegramClient domainTelegram.Client
	publisher      *PublisherService
	gate           *AccessGate
	reminders      ReminderScheduler
	bossChatID     int64
	logger         *logrus.Entry
}

func NewVacationService(
	dayRepo day.Repository,
	telegramClient domainTelegram.Client,
	publisher *PublisherService,
	gate *AccessGate,
	reminders ReminderScheduler,
	bossChatID int64,
	logger *logrus.Entry,
) *VacationService {
	return &VacationService{
		dayRepo:        dayRepo,
		telegramClient: telegramClient,
		publisher:      publisher,
		gate:           gate,
		reminders:      reminders,
		bossChatID:     bossChatID,
		logger:         logger.WithField("component", "vacation_service"),
	}
}

// AskQuestion sends today's vacation question to the boss and arms the
// one-hour reminder. Re-asking the same date replaces the pending reminder
// instead of adding a second one.
func (s *VacationService) AskQuestion(ctx context.Context) error {
	if s.bossChatID == 0 {
		s.logger.Warn("BOSS_CHAT_ID is not configured, skipping the vacation question")
		return nil
	}

	today := day.Truncate(time.Now())
	logCtx := s.logger.WithField("date", day.Key(today))

	if err := s.sendQuestion("Босс, сегодня выходной?", today); err != nil {
		s.logBossSendFailure(err, "vacation question")
		return fmt.Errorf("failed to send vacation question: %w", err)
	}
	logCtx.Info("Vacation question sent to the boss")

	if err := s.dayRepo.MarkQuestionSent(ctx, today); err != nil {
		logCtx.WithError(err).Error("Failed to mark vacation question as sent")
	}

	reminderDate := today
	s.reminders.ScheduleOnce(reminderJobKey(today), reminderDelay, func() {
		reminderCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.SendReminderIfNeeded(reminderCtx, reminderDate); err != nil {
			s.logger.WithError(err).Error("Vacation reminder failed")
		}
	})
	logCtx.Infof("Vacation reminder armed for %s from now", reminderDelay)
	return nil
}

// SendReminderIfNeeded re-sends the vacation question once, and only while
// the original question is still unanswered. It never arms another timer.
func (s *VacationService) SendReminderIfNeeded(ctx context.Context, date time.Time) error {
	logCtx := s.logger.WithField("date", day.Key(date))

	rec, err := s.dayRepo.EnsureRecord(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load day record: %w", err)
	}
	if !rec.QuestionSent {
		logCtx.Info("Vacation question was never sent for this date, no reminder needed")
		return nil
	}
	if rec.Answered {
		logCtx.Info("Vacation question is already answered, no reminder needed")
		return nil
	}
	if s.bossChatID == 0 {
		s.logger.Warn("BOSS_CHAT_ID is not configured, skipping the reminder")
		return nil
	}

	if err := s.sendQuestion("Напоминание: Босс, сегодня выходной?", date); err != nil {
		s.logBossSendFailure(err, "vacation reminder")
		return fmt.Errorf("failed to send vacation reminder: %w", err)
	}
	logCtx.Info("Vacation reminder sent to the boss")
	return nil
}

// RecordAnswer authorizes the sender, records the answer and returns the
// reply text for the question message. An answer about today also triggers
// an immediate publish attempt; answers about past dates are recorded only,
// since past posts are not sent retroactively.
func (s *VacationService) RecordAnswer(ctx context.Context, answer Answer, sender Identity) (string, error) {
	if !s.gate.IsAuthorized(sender) {
		s.logger.WithFields(logrus.Fields{
			"sender_id":       sender.ID,
			"sender_username": sender.Username,
		}).Warn("Unauthorized attempt to answer the vacation question")
		return "У вас нет прав для выполнения этого действия.", ErrNotAuthorized
	}

	date := day.Truncate(answer.Date)
	today := day.Truncate(time.Now())
	isToday := date.Equal(today)

	if err := s.dayRepo.SetStatus(ctx, date, answer.IsVacation, day.SourceBossButton); err != nil {
		return "", fmt.Errorf("failed to record day status: %w", err)
	}

	var reply string
	switch {
	case answer.IsVacation && isToday:
		reply = "Понял, Босс, отдыхайте и набирайтесь сил, сегодня неплохой для этого день"
	case answer.IsVacation:
		reply = fmt.Sprintf("Ответ получен, Босс. Заношу информацию, что день %s был выходным.", day.Key(date))
	case isToday:
		reply = "Отлично, Босс, не перетруждайтесь, продуктивного Вам дня!"
	default:
		reply = fmt.Sprintf("Ответ получен, Босс. Заношу информацию, что день %s был рабочим.", day.Key(date))
	}

	if isToday {
		if err := s.publisher.PublishIfDue(ctx, date); err != nil {
			s.logger.WithError(err).Error("Publish attempt after today's answer failed")
		}
	}
	return reply, nil
}

// CheckBossAvailability probes the boss chat once. Used at startup to catch
// the one failure that needs manual remediation: the boss never having
// started a conversation with the bot.
func (s *VacationService) CheckBossAvailability() bool {
	if s.bossChatID == 0 {
		s.logger.Warn("BOSS_CHAT_ID is not configured, availability check skipped")
		return false
	}
	if err := s.telegramClient.CheckDirectChat(s.bossChatID); err != nil {
		s.logBossSendFailure(err, "availability check")
		return false
	}
	s.logger.Info("Boss chat is reachable")
	return true
}

func (s *VacationService) sendQuestion(text string, date time.Time) error {
	markup := &telebot.ReplyMarkup{}
	btnYes := markup.Data("Да", BtnUniqueVacationYes, day.Key(date))
	btnNo := markup.Data("Нет", BtnUniqueVacationNo, day.Key(date))
	markup.Inline(markup.Row(btnYes, btnNo))

	recipient := strconv.FormatInt(s.bossChatID, 10)
	return s.telegramClient.SendMessage(recipient, text, &telebot.SendOptions{ReplyMarkup: markup})
}

func (s *VacationService) logBossSendFailure(err error, operation string) {
	logCtx := s.logger.WithField("operation", operation)
	if domainTelegram.IsNotStartedByUser(err) {
		botName := "бот"
		if name := s.telegramClient.Username(); name != "" {
			botName = "@" + name
		}
		logCtx.Errorf("CRITICAL: the bot cannot message the boss. The boss must open %s in Telegram and send /start", botName)
		return
	}
	logCtx.WithError(err).Error("Failed to message the boss")
}

func reminderJobKey(date time.Time) string {
	return "vacation_reminder_" + day.Key(date)
}
