package models

import "time"

const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

const DefaultEventColor = "#14b8a6"

// CalendarEvent is a local calendar entry, independent of Google. Date
// and time are kept as the wire strings ("YYYY-MM-DD", "HH:MM") the
// clients send.
type CalendarEvent struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"-"`
	Title             string    `gorm:"not null;size:255" json:"title"`
	Description       string    `json:"description,omitempty"`
	Date              string    `gorm:"size:10" json:"date,omitempty"`
	TimeOfDay         string    `gorm:"column:time;size:5" json:"time,omitempty"`
	Location          string    `gorm:"size:255" json:"location,omitempty"`
	Recurrence        string    `gorm:"size:20;not null;default:none" json:"recurrence"`
	RecurrenceEndDate string    `gorm:"size:10" json:"recurrence_end_date,omitempty"`
	Tag               string    `gorm:"size:100" json:"tag,omitempty"`
	Color             string    `gorm:"size:7;not null;default:#14b8a6" json:"color"`
	GoogleEventID     *string   `gorm:"uniqueIndex;size:255" json:"google_event_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ValidRecurrence(value string) bool {
	switch value {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}
