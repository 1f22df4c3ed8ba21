package app

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/infra/storage"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestDayRepo(t *testing.T) *storage.JSONDayRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vacation_history.json")
	return storage.NewJSONDayRepository(path, testLogger())
}

type sentMessage struct {
	recipient string
	text      string
	options   *telebot.SendOptions
}

// fakeTelegramClient records outbound messages in place of the Bot API.
type fakeTelegramClient struct {
	sent     []sentMessage
	sendErr  error
	checkErr error
	username string
}

func (f *fakeTelegramClient) SendMessage(recipient string, text string, options *telebot.SendOptions) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{recipient: recipient, text: text, options: options})
	return nil
}

func (f *fakeTelegramClient) CheckDirectChat(int64) error { return f.checkErr }

func (f *fakeTelegramClient) Username() string { return f.username }

func (f *fakeTelegramClient) sentTo(recipient string) []sentMessage {
	var out []sentMessage
	for _, m := range f.sent {
		if m.recipient == recipient {
			out = append(out, m)
		}
	}
	return out
}

type scheduledJob struct {
	key   string
	delay time.Duration
	fn    func()
}

// fakeReminderScheduler records ScheduleOnce calls without running timers.
type fakeReminderScheduler struct {
	scheduled []scheduledJob
}

func (f *fakeReminderScheduler) ScheduleOnce(key string, delay time.Duration, fn func()) {
	f.scheduled = append(f.scheduled, scheduledJob{key: key, delay: delay, fn: fn})
}
