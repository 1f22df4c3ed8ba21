package day

import "time"

// KeyLayout is the storage key format for calendar dates. It is
// fixed-width, so lexicographic order of keys equals chronological order.
const KeyLayout = "2006-01-02"

// Status reports whether a day was a vacation day or a work day.
type Status string

const (
	StatusUnset    Status = ""
	StatusVacation Status = "vacation"
	StatusWork     Status = "work"
)

// Answer provenance tags.
const (
	SourceBossButton = "boss_button"
	SourceSystem     = "system"
)

// Record is the persisted state for one calendar date.
// Unknown or missing JSON fields keep their zero values on load.
type Record struct {
	Date           string     `json:"date"`
	DayStatus      Status     `json:"day_status,omitempty"`
	QuestionSent   bool       `json:"question_sent"`
	QuestionSentAt *time.Time `json:"question_sent_at,omitempty"`
	Answered       bool       `json:"answered"`
	AnsweredAt     *time.Time `json:"answered_at,omitempty"`
	AnswerSource   string     `json:"answer_source,omitempty"`
	MessageSent    bool       `json:"message_sent"`
	MessageSentAt  *time.Time `json:"message_sent_at,omitempty"`
}

// IsVacation reports whether the record is answered as a vacation day.
func (r *Record) IsVacation() bool {
	return r.DayStatus == StatusVacation
}

// Key converts a date to its storage key, dropping the time of day.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a storage key back into a date (midnight, local time).
func ParseKey(s string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, s, time.Local)
}

// Truncate normalizes a timestamp to midnight of its calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
