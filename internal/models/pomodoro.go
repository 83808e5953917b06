package models

import "time"

const (
	SessionTypeWork       = "work"
	SessionTypeShortBreak = "shortBreak"
	SessionTypeLongBreak  = "longBreak"
)

const DefaultTargetDuration = 25

// PomodoroSession tracks one focus or break interval. Clients poll with
// cumulative elapsed minutes, so ElapsedMinutes is last-write-wins.
type PomodoroSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"-"`
	SessionType    string     `gorm:"not null;default:work" json:"session_type"`
	TargetDuration int        `gorm:"not null;default:25" json:"target_duration"`
	ElapsedMinutes int        `gorm:"not null;default:0" json:"elapsed_minutes"`
	IsCompleted    bool       `gorm:"not null;default:false" json:"is_completed"`
	StartedAt      time.Time  `gorm:"not null;index" json:"started_at"`
	LastUpdated    time.Time  `gorm:"not null" json:"last_updated"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func ValidSessionType(value string) bool {
	switch value {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return true
	}
	return false
}
