package day

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving Day Records.
type Repository interface {
	// EnsureRecord returns the record for the date, creating and persisting
	// it with defaults if absent. Already-set fields are never reset.
	EnsureRecord(ctx context.Context, date time.Time) (*Record, error)

	// SetStatus records the boss's answer for the date: day status,
	// answered flag, answer timestamp and provenance tag.
	SetStatus(ctx context.Context, date time.Time, isVacation bool, source string) error

	// IsVacation reports whether the date is a vacation day. Dates without
	// a record, or with an unanswered one, are work days.
	IsVacation(ctx context.Context, date time.Time) (bool, error)

	// MarkQuestionSent flags that the vacation question went out. The
	// timestamp is write-once: repeated calls keep the first one.
	MarkQuestionSent(ctx context.Context, date time.Time) error

	// MarkMessageSent flags that the daily post was published for the date.
	MarkMessageSent(ctx context.Context, date time.Time) error

	// ListBefore returns up to limit records strictly before the given
	// date, most recent first.
	ListBefore(ctx context.Context, date time.Time, limit int) ([]*Record, error)
}
