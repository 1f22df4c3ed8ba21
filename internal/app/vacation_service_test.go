package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/domain/day"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBossChatID   = int64(99)
	testBossUsername = "boss"
	bossRecipient    = "99"
)

func newTestVacationService(t *testing.T, bossChatID int64) (*VacationService, *fakeTelegramClient, *fakeReminderScheduler, day.Repository) {
	t.Helper()
	repo := newTestDayRepo(t)
	client := &fakeTelegramClient{}
	reminders := &fakeReminderScheduler{}
	gate := NewAccessGate(bossChatID, testBossUsername)
	publisher := NewPublisherService(repo, client, testChannel, time.Now(), "Day {}", "\n#выходной", testLogger())
	service := NewVacationService(repo, client, publisher, gate, reminders, bossChatID, testLogger())
	return service, client, reminders, repo
}

func bossIdentity() Identity {
	return Identity{ID: testBossChatID, Username: testBossUsername}
}

func TestAskQuestionSendsPromptAndArmsReminder(t *testing.T) {
	ctx := context.Background()
	service, client, reminders, repo := newTestVacationService(t, testBossChatID)

	require.NoError(t, service.AskQuestion(ctx))

	require.Len(t, client.sent, 1)
	assert.Equal(t, bossRecipient, client.sent[0].recipient)
	assert.Equal(t, "Босс, сегодня выходной?", client.sent[0].text)
	require.NotNil(t, client.sent[0].options)
	assert.NotNil(t, client.sent[0].options.ReplyMarkup, "question must carry the inline yes/no keyboard")

	rec, err := repo.EnsureRecord(ctx, time.Now())
	require.NoError(t, err)
	assert.True(t, rec.QuestionSent)

	require.Len(t, reminders.scheduled, 1)
	assert.Equal(t, "vacation_reminder_"+day.Key(time.Now()), reminders.scheduled[0].key)
	assert.Equal(t, time.Hour, reminders.scheduled[0].delay)
}

func TestAskQuestionTwiceReusesTheReminderKey(t *testing.T) {
	ctx := context.Background()
	service, _, reminders, _ := newTestVacationService(t, testBossChatID)

	require.NoError(t, service.AskQuestion(ctx))
	require.NoError(t, service.AskQuestion(ctx))

	// Same key on every ask: the scheduler replaces the pending timer, so
	// only one reminder can ever fire per date.
	require.Len(t, reminders.scheduled, 2)
	assert.Equal(t, reminders.scheduled[0].key, reminders.scheduled[1].key)
}

func TestAskQuestionSkipsWithoutBossChatID(t *testing.T) {
	ctx := context.Background()
	service, client, reminders, _ := newTestVacationService(t, 0)

	require.NoError(t, service.AskQuestion(ctx))
	assert.Empty(t, client.sent)
	assert.Empty(t, reminders.scheduled)
}

func TestReminderIsNoopBeforeQuestion(t *testing.T) {
	ctx := context.Background()
	service, client, _, _ := newTestVacationService(t, testBossChatID)

	require.NoError(t, service.SendReminderIfNeeded(ctx, time.Now()))
	assert.Empty(t, client.sent)
}

func TestReminderIsNoopAfterAnswer(t *testing.T) {
	ctx := context.Background()
	service, client, _, _ := newTestVacationService(t, testBossChatID)

	require.NoError(t, service.AskQuestion(ctx))
	_, err := service.RecordAnswer(ctx, Answer{IsVacation: true, Date: time.Now()}, bossIdentity())
	require.NoError(t, err)

	bossMessagesBefore := len(client.sentTo(bossRecipient))
	require.NoError(t, service.SendReminderIfNeeded(ctx, time.Now()))
	assert.Len(t, client.sentTo(bossRecipient), bossMessagesBefore, "an answered question must not be re-asked")
}

func TestReminderResendsUnansweredQuestion(t *testing.T) {
	ctx := context.Background()
	service, client, _, _ := newTestVacationService(t, testBossChatID)

	require.NoError(t, service.AskQuestion(ctx))
	require.NoError(t, service.SendReminderIfNeeded(ctx, time.Now()))

	bossMessages := client.sentTo(bossRecipient)
	require.Len(t, bossMessages, 2)
	assert.Equal(t, "Напоминание: Босс, сегодня выходной?", bossMessages[1].text)
	assert.NotNil(t, bossMessages[1].options.ReplyMarkup)
}

func TestRecordAnswerForTodayPublishesImmediately(t *testing.T) {
	ctx := context.Background()
	service, client, _, repo := newTestVacationService(t, testBossChatID)

	reply, err := service.RecordAnswer(ctx, Answer{IsVacation: true, Date: time.Now()}, bossIdentity())
	require.NoError(t, err)
	assert.Contains(t, reply, "отдыхайте")

	isVacation, err := repo.IsVacation(ctx, time.Now())
	require.NoError(t, err)
	assert.True(t, isVacation)

	channelMessages := client.sentTo(testChannel)
	require.Len(t, channelMessages, 1, "a same-day answer triggers an immediate publish")
	assert.Equal(t, "Day 1\n#выходной", channelMessages[0].text)
}

func TestRecordAnswerForPastDateDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	service, client, _, repo := newTestVacationService(t, testBossChatID)
	yesterday := time.Now().AddDate(0, 0, -1)

	reply, err := service.RecordAnswer(ctx, Answer{IsVacation: true, Date: yesterday}, bossIdentity())
	require.NoError(t, err)
	assert.Contains(t, reply, day.Key(yesterday))
	assert.True(t, strings.Contains(reply, "выходным"))

	isVacation, err := repo.IsVacation(ctx, yesterday)
	require.NoError(t, err)
	assert.True(t, isVacation)

	assert.Empty(t, client.sentTo(testChannel), "past-date posts are not sent retroactively")
}

func TestRecordAnswerWorkDayReply(t *testing.T) {
	ctx := context.Background()
	service, _, _, repo := newTestVacationService(t, testBossChatID)

	reply, err := service.RecordAnswer(ctx, Answer{IsVacation: false, Date: time.Now()}, bossIdentity())
	require.NoError(t, err)
	assert.Contains(t, reply, "продуктивного")

	rec, err := repo.EnsureRecord(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, day.StatusWork, rec.DayStatus)
}

func TestRecordAnswerRejectsStrangers(t *testing.T) {
	ctx := context.Background()
	service, client, _, repo := newTestVacationService(t, testBossChatID)

	reply, err := service.RecordAnswer(ctx, Answer{IsVacation: true, Date: time.Now()}, Identity{ID: 12345, Username: "intruder"})
	require.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, "У вас нет прав для выполнения этого действия.", reply)

	rec, recErr := repo.EnsureRecord(ctx, time.Now())
	require.NoError(t, recErr)
	assert.False(t, rec.Answered, "unauthorized answers must not touch the record")
	assert.Empty(t, client.sent)
}

func TestRecordAnswerOverwritesEarlierAnswer(t *testing.T) {
	ctx := context.Background()
	service, _, _, repo := newTestVacationService(t, testBossChatID)
	yesterday := time.Now().AddDate(0, 0, -1)

	_, err := service.RecordAnswer(ctx, Answer{IsVacation: true, Date: yesterday}, bossIdentity())
	require.NoError(t, err)
	_, err = service.RecordAnswer(ctx, Answer{IsVacation: false, Date: yesterday}, bossIdentity())
	require.NoError(t, err)

	rec, err := repo.EnsureRecord(ctx, yesterday)
	require.NoError(t, err)
	assert.Equal(t, day.StatusWork, rec.DayStatus, "a later answer wins")
	assert.True(t, rec.Answered)
}

func TestCheckBossAvailability(t *testing.T) {
	service, client, _, _ := newTestVacationService(t, testBossChatID)
	assert.True(t, service.CheckBossAvailability())

	client.checkErr = assert.AnError
	assert.False(t, service.CheckBossAvailability())

	serviceNoBoss, _, _, _ := newTestVacationService(t, 0)
	assert.False(t, serviceNoBoss.CheckBossAvailability())
}
