// internal/infra/storage/json_day_repository.go
package storage

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/GreatBrite/game-counter-helper/internal/domain/day"

	"github.com/sirupsen/logrus"
)

// JSONDayRepository persists Day Records as a single JSON object keyed by
// YYYY-MM-DD. Every mutation is a full load, modify, atomic overwrite.
// Records are never deleted. A read-through cache keeps the vacation flag
// per date; the persisted file stays the source of truth.
type JSONDayRepository struct {
	path   string
	logger *logrus.Entry

	mu    sync.Mutex
	cache map[string]bool // date key -> is vacation
}

func NewJSONDayRepository(path string, logger *logrus.Entry) *JSONDayRepository {
	return &JSONDayRepository{
		path:   path,
		logger: logger.WithField("component", "json_day_repository"),
		cache:  make(map[string]bool),
	}
}

var _ day.Repository = (*JSONDayRepository)(nil)

// load reads the whole history file. A missing, unreadable or corrupt file
// degrades to an empty store: the bot must keep running on a bad disk.
func (r *JSONDayRepository) load() map[string]*day.Record {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WithError(err).Error("Failed to read history file, starting from an empty store")
		}
		return make(map[string]*day.Record)
	}

	history := make(map[string]*day.Record)
	if err := json.Unmarshal(raw, &history); err != nil {
		r.logger.WithError(err).Error("History file is corrupt, starting from an empty store")
		return make(map[string]*day.Record)
	}
	return history
}

// persist overwrites the history file atomically (temp file, then rename).
// Write failures are logged, not propagated: the operation already took
// effect in memory and the next mutation retries the full overwrite.
func (r *JSONDayRepository) persist(history map[string]*day.Record) {
	raw, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal history")
		return
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		r.logger.WithError(err).Error("Failed to write history temp file")
		return
	}
	if err := os.Rename(tmp, r.path); err != nil {
		r.logger.WithError(err).Error("Failed to replace history file")
	}
}

// ensure returns the record for the date, creating it in the map with
// defaults if absent. Existing fields are left untouched.
func (r *JSONDayRepository) ensure(history map[string]*day.Record, date time.Time) *day.Record {
	key := day.Key(date)
	rec, ok := history[key]
	if !ok {
		rec = &day.Record{Date: key}
		history[key] = rec
	}
	if rec.Date == "" {
		rec.Date = key
	}
	return rec
}

func (r *JSONDayRepository) EnsureRecord(_ context.Context, date time.Time) (*day.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	rec := r.ensure(history, date)
	r.persist(history)
	return rec, nil
}

func (r *JSONDayRepository) SetStatus(_ context.Context, date time.Time, isVacation bool, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[day.Key(date)] = isVacation

	history := r.load()
	rec := r.ensure(history, date)

	if isVacation {
		rec.DayStatus = day.StatusVacation
	} else {
		rec.DayStatus = day.StatusWork
	}
	rec.AnswerSource = source
	rec.Answered = true
	now := time.Now()
	rec.AnsweredAt = &now

	r.persist(history)
	r.logger.WithFields(logrus.Fields{
		"date":        rec.Date,
		"is_vacation": isVacation,
		"source":      source,
	}).Info("Day status recorded")
	return nil
}

func (r *JSONDayRepository) IsVacation(_ context.Context, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := day.Key(date)
	if v, ok := r.cache[key]; ok {
		return v, nil
	}

	rec, ok := r.load()[key]
	if !ok {
		return false, nil
	}
	isVacation := rec.IsVacation()
	r.cache[key] = isVacation
	return isVacation, nil
}

func (r *JSONDayRepository) MarkQuestionSent(_ context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	rec := r.ensure(history, date)
	rec.QuestionSent = true
	// Keep the original timestamp when the question is re-sent.
	if rec.QuestionSentAt == nil {
		now := time.Now()
		rec.QuestionSentAt = &now
	}
	r.persist(history)
	return nil
}

func (r *JSONDayRepository) MarkMessageSent(_ context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load()
	rec := r.ensure(history, date)
	rec.MessageSent = true
	now := time.Now()
	rec.MessageSentAt = &now
	r.persist(history)
	return nil
}

func (r *JSONDayRepository) ListBefore(_ context.Context, date time.Time, limit int) ([]*day.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := day.Key(date)
	history := r.load()

	keys := make([]string, 0, len(history))
	for k := range history {
		if k < cutoff {
			keys = append(keys, k)
		}
	}
	// Keys are fixed-width YYYY-MM-DD, so string order is date order.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	records := make([]*day.Record, 0, len(keys))
	for _, k := range keys {
		records = append(records, history[k])
	}
	return records, nil
}
