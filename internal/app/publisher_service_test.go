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

const testChannel = "@gamedev_channel"

func newTestPublisher(t *testing.T, client *fakeTelegramClient, startDate time.Time, template, hashtag string) (*PublisherService, day.Repository) {
	t.Helper()
	repo := newTestDayRepo(t)
	publisher := NewPublisherService(repo, client, testChannel, startDate, template, hashtag, testLogger())
	return publisher, repo
}

func TestPublishIfDueIsNoopWithoutAnswer(t *testing.T) {
	ctx := context.Background()
	client := &fakeTelegramClient{}
	publisher, _ := newTestPublisher(t, client, time.Now(), "Day {}", "")

	require.NoError(t, publisher.PublishIfDue(ctx, time.Now()))
	assert.Empty(t, client.sent)
}

func TestPublishIfDueSendsAtMostOnce(t *testing.T) {
	ctx := context.Background()
	today := time.Now()
	startDate := today.AddDate(0, 0, -5)
	client := &fakeTelegramClient{}
	publisher, repo := newTestPublisher(t, client, startDate, "Day {}", "")

	require.NoError(t, repo.SetStatus(ctx, today, false, day.SourceBossButton))

	require.NoError(t, publisher.PublishIfDue(ctx, today))
	require.NoError(t, publisher.PublishIfDue(ctx, today))

	require.Len(t, client.sent, 1, "second publish for the same date must be a no-op")
	assert.Equal(t, testChannel, client.sent[0].recipient)
	assert.Equal(t, "Day 6", client.sent[0].text)
}

func TestPublishIfDueAppendsVacationHashtag(t *testing.T) {
	ctx := context.Background()
	today := time.Now()
	client := &fakeTelegramClient{}
	publisher, repo := newTestPublisher(t, client, today, "Разрабатываю игру день {}", "\n#выходной")

	require.NoError(t, repo.SetStatus(ctx, today, true, day.SourceBossButton))
	require.NoError(t, publisher.PublishIfDue(ctx, today))

	require.Len(t, client.sent, 1)
	assert.Equal(t, "Разрабатываю игру день 1\n#выходной", client.sent[0].text)
}

func TestPublishIfDueOmitsHashtagOnWorkDay(t *testing.T) {
	ctx := context.Background()
	today := time.Now()
	client := &fakeTelegramClient{}
	publisher, repo := newTestPublisher(t, client, today, "Day {}", "\n#выходной")

	require.NoError(t, repo.SetStatus(ctx, today, false, day.SourceBossButton))
	require.NoError(t, publisher.PublishIfDue(ctx, today))

	require.Len(t, client.sent, 1)
	assert.False(t, strings.Contains(client.sent[0].text, "#выходной"))
}

func TestPublishIfDueDoesNotMarkSentOnTransportFailure(t *testing.T) {
	ctx := context.Background()
	today := time.Now()
	client := &fakeTelegramClient{sendErr: assert.AnError}
	publisher, repo := newTestPublisher(t, client, today, "Day {}", "")

	require.NoError(t, repo.SetStatus(ctx, today, false, day.SourceBossButton))
	require.Error(t, publisher.PublishIfDue(ctx, today))

	rec, err := repo.EnsureRecord(ctx, today)
	require.NoError(t, err)
	assert.False(t, rec.MessageSent, "failed sends must stay eligible for the cron fallback")
}

func TestDayNumber(t *testing.T) {
	startDate := time.Date(2025, 11, 11, 0, 0, 0, 0, time.Local)
	publisher := NewPublisherService(newTestDayRepo(t), &fakeTelegramClient{}, testChannel, startDate, "Day {}", "", testLogger())

	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, 11, 11, 0, 0, 0, 0, time.Local), 1},
		{time.Date(2025, 11, 12, 0, 0, 0, 0, time.Local), 2},
		{time.Date(2025, 11, 16, 23, 59, 0, 0, time.Local), 6},
		{time.Date(2025, 12, 11, 0, 0, 0, 0, time.Local), 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, publisher.DayNumber(tt.date), "day number for %s", tt.date)
	}
}
