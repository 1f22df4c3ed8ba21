package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/app"
	"github.com/GreatBrite/game-counter-helper/internal/infra/config"
	"github.com/GreatBrite/game-counter-helper/internal/infra/logger"
	"github.com/GreatBrite/game-counter-helper/internal/infra/scheduler"
	"github.com/GreatBrite/game-counter-helper/internal/infra/storage"
	infraTelegram "github.com/GreatBrite/game-counter-helper/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Game Counter Helper starting...")

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	baseLogger := logrus.NewEntry(logger.Get())
	mainLogger := baseLogger.WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Channel: %s, Start date: %s",
		cfg.LogLevel, cfg.Environment, cfg.ChannelID, cfg.StartDate.Format("2006-01-02"))

	// Day record store over the flat JSON history file.
	dayRepo := storage.NewJSONDayRepository(cfg.HistoryFile, baseLogger)
	mainLogger.Infof("Day record store initialized. History file: %s", cfg.HistoryFile)

	gate := app.NewAccessGate(cfg.BossChatID, cfg.BossUsername)

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := baseLogger.WithField("component", "telebot")
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.WithError(err).Error("Unhandled telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := infraTelegram.NewTelebotAdapter(bot)

	reminders := scheduler.NewReminderScheduler(baseLogger)

	publisher := app.NewPublisherService(
		dayRepo,
		telegramClient,
		cfg.ChannelID,
		cfg.StartDate,
		cfg.MessageTemplate,
		cfg.VacationHashtag,
		baseLogger,
	)
	vacationService := app.NewVacationService(
		dayRepo,
		telegramClient,
		publisher,
		gate,
		reminders,
		cfg.BossChatID,
		baseLogger,
	)
	mainLogger.Info("Application services initialized.")

	// Catch the one failure that needs manual remediation before the first
	// question job fires: the boss never having pressed /start.
	if cfg.BossChatID != 0 && !vacationService.CheckBossAvailability() {
		mainLogger.Warn("The bot cannot message the boss yet. The boss must open the bot in Telegram and send /start.")
	}

	ctx := context.Background()
	infraTelegram.RegisterBossHandlers(ctx, bot, vacationService, dayRepo, gate, baseLogger)
	mainLogger.Info("Boss command and callback handlers registered.")

	dailyScheduler := scheduler.NewDailyScheduler(publisher, vacationService, baseLogger, cfg.PublishHour, cfg.PublishMinute)
	if err := dailyScheduler.Start(); err != nil {
		mainLogger.Fatalf("FATAL: Could not start daily scheduler: %v", err)
	}

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	dailyScheduler.Stop()
	reminders.StopAll()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
