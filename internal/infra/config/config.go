package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/app"

	"github.com/joho/godotenv"
)

const (
	defaultBossUsername    = "gr8brite"
	defaultStartDate       = "2025-11-11"
	defaultSendTime        = "13:00"
	defaultMessageTemplate = "Разрабатываю игру день {}"
	defaultVacationHashtag = "\n#выходной@greatbritedevelop"
	defaultHistoryFile     = "vacation_history.json"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	ChannelID       string // numeric chat ID or @username of the channel
	BossUsername    string
	BossChatID      int64 // 0 when not configured
	StartDate       time.Time
	PublishHour     int
	PublishMinute   int
	MessageTemplate string
	VacationHashtag string
	HistoryFile     string
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("BOT_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	cfg.ChannelID = os.Getenv("CHANNEL_ID")
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("CHANNEL_ID is not set")
	}

	cfg.BossUsername = os.Getenv("BOSS_USERNAME")
	if cfg.BossUsername == "" {
		cfg.BossUsername = defaultBossUsername
	}

	// BOSS_CHAT_ID is optional: without it the question flow is skipped
	// and the channel post stays gated on an answer that never comes.
	if bossIDStr := os.Getenv("BOSS_CHAT_ID"); bossIDStr != "" {
		cfg.BossChatID, err = strconv.ParseInt(bossIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid BOSS_CHAT_ID: %w", err)
		}
	}

	startDateStr := os.Getenv("START_DATE")
	if startDateStr == "" {
		startDateStr = defaultStartDate
	}
	cfg.StartDate, err = time.ParseInLocation("2006-01-02", startDateStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid START_DATE %q (want YYYY-MM-DD): %w", startDateStr, err)
	}

	sendTime := os.Getenv("SEND_TIME")
	if sendTime == "" {
		sendTime = defaultSendTime
	}
	cfg.PublishHour, cfg.PublishMinute, err = ParseSendTime(sendTime)
	if err != nil {
		return nil, err
	}

	cfg.MessageTemplate = os.Getenv("MESSAGE_TEMPLATE")
	if cfg.MessageTemplate == "" {
		cfg.MessageTemplate = defaultMessageTemplate
	}
	if !strings.Contains(cfg.MessageTemplate, app.TemplatePlaceholder) {
		return nil, fmt.Errorf("MESSAGE_TEMPLATE must contain the %q placeholder", app.TemplatePlaceholder)
	}

	if v, ok := os.LookupEnv("VACATION_HASHTAG"); ok {
		cfg.VacationHashtag = v
	} else {
		cfg.VacationHashtag = defaultVacationHashtag
	}

	cfg.HistoryFile = os.Getenv("HISTORY_FILE")
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = defaultHistoryFile
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// ParseSendTime parses an "HH:MM" wall-clock time.
func ParseSendTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid SEND_TIME %q (want HH:MM)", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid SEND_TIME hour %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid SEND_TIME minute %q", parts[1])
	}
	return hour, minute, nil
}
