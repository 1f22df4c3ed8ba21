// internal/infra/telegram/boss_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/app"
	"github.com/GreatBrite/game-counter-helper/internal/domain/day"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const deniedReply = "У вас нет прав для выполнения этого действия."

// RegisterBossHandlers registers the vacation answer buttons and the boss
// commands. Every inbound interaction is gated against the boss identity.
func RegisterBossHandlers(
	ctx context.Context,
	b *telebot.Bot,
	vacationService *app.VacationService,
	dayRepo day.Repository,
	gate *app.AccessGate,
	baseLogger *logrus.Entry,
) {
	btnYes := telebot.Btn{Unique: app.BtnUniqueVacationYes}
	btnNo := telebot.Btn{Unique: app.BtnUniqueVacationNo}
	b.Handle(&btnYes, newAnswerHandler(ctx, vacationService, true, baseLogger))
	b.Handle(&btnNo, newAnswerHandler(ctx, vacationService, false, baseLogger))

	b.Handle("/status", newStatusHandler(ctx, dayRepo, gate, baseLogger))

	helpHandler := newHelpHandler(gate, baseLogger)
	b.Handle("/start", helpHandler)
	b.Handle("/help", helpHandler)
}

// newAnswerHandler processes one of the two vacation buttons. The button
// payload is the date key the answer applies to; a malformed payload
// degrades to "today" rather than failing the interaction.
func newAnswerHandler(ctx context.Context, vacationService *app.VacationService, isVacation bool, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "vacation_answer",
			"sender_id": c.Sender().ID,
		})

		date, err := day.ParseKey(c.Data())
		if err != nil {
			handlerLogger.WithField("payload", c.Data()).Warn("Unparseable date in callback payload, assuming today")
			date = time.Now()
		}

		answer := app.Answer{IsVacation: isVacation, Date: date}
		sender := app.Identity{ID: c.Sender().ID, Username: c.Sender().Username}

		reply, err := vacationService.RecordAnswer(ctx, answer, sender)
		if err != nil {
			if errors.Is(err, app.ErrNotAuthorized) {
				if editErr := c.Edit(reply); editErr != nil {
					handlerLogger.WithError(editErr).Error("Failed to edit message with denial reply")
				}
				return c.Respond()
			}
			handlerLogger.WithError(err).Error("Failed to process vacation answer")
			return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка."})
		}

		if editErr := c.Edit(reply); editErr != nil {
			handlerLogger.WithError(editErr).Error("Failed to edit question message with confirmation")
		}
		return c.Respond()
	}
}

// newStatusHandler reports today's status plus the five most recent prior
// records with their status and answer source.
func newStatusHandler(ctx context.Context, dayRepo day.Repository, gate *app.AccessGate, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/status",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !gate.IsAuthorized(app.Identity{ID: c.Sender().ID, Username: c.Sender().Username}) {
			handlerLogger.WithField("sender_username", c.Sender().Username).Warn("Unauthorized command attempt")
			return c.Send(deniedReply)
		}

		today := time.Now()
		todayRec, err := dayRepo.EnsureRecord(ctx, today)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to load today's record")
			return c.Send("Произошла ошибка при чтении истории.")
		}

		var reply strings.Builder
		reply.WriteString(fmt.Sprintf("Сегодня (%s): %s", day.Key(today), statusText(todayRec.DayStatus)))

		recent, err := dayRepo.ListBefore(ctx, today, 5)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to load recent records")
			return c.Send(reply.String())
		}
		if len(recent) > 0 {
			reply.WriteString("\n\nПоследние дни:")
			for _, rec := range recent {
				source := rec.AnswerSource
				if source == "" {
					source = "неизвестно"
				}
				reply.WriteString(fmt.Sprintf("\n- %s: %s (source=%s)", rec.Date, statusText(rec.DayStatus), source))
			}
		}
		return c.Send(reply.String())
	}
}

// newHelpHandler answers /start and /help with the command list.
func newHelpHandler(gate *app.AccessGate, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   c.Text(),
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !gate.IsAuthorized(app.Identity{ID: c.Sender().ID, Username: c.Sender().Username}) {
			handlerLogger.WithField("sender_username", c.Sender().Username).Warn("Unauthorized command attempt")
			return c.Send("У вас нет прав для выполнения команд.")
		}
		return c.Send("Команда получена. Доступные команды:\n" +
			"/status - показать статус на сегодня и последние дни\n")
	}
}

func statusText(status day.Status) string {
	switch status {
	case day.StatusVacation:
		return "выходной"
	case day.StatusWork:
		return "рабочий день"
	default:
		return "статус не определён"
	}
}
