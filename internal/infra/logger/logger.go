// internal/infra/logger/logger.go
package logger

import (
	"os"
	"strings"

	"github.com/GreatBrite/game-counter-helper/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger for the bot. Components derive their own
// entries from it via WithField("component", ...).
var Log = logrus.New()

// Init applies the configured level and output format to the shared logger.
// Production and staging log JSON for ingestion; everything else gets the
// colored text formatter for reading a terminal.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Unknown log level '%s', falling back to 'info': %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	switch strings.ToLower(cfg.Environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	Log.Infof("Logger ready: level=%s, environment=%s", Log.GetLevel(), cfg.Environment)
}

// Get returns the shared logger.
func Get() *logrus.Logger {
	return Log
}
