package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// WeatherSnapshot is captured once when a task gains a location and is
// served as-is afterwards; it is never refreshed on read.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Location    string  `json:"location"`
}

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Date        *time.Time `gorm:"type:date" json:"date,omitempty"`
	TimeOfDay   string     `gorm:"column:time" json:"time,omitempty"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Priority    string     `gorm:"not null;default:medium" json:"priority"`
	Location    string     `json:"location,omitempty"`

	Weather *WeatherSnapshot `gorm:"serializer:json" json:"weather_data,omitempty"`

	CategoryID *uint     `json:"category_id,omitempty"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`

	SyncWithGoogleCalendar bool    `gorm:"not null;default:false" json:"sync_with_google_calendar"`
	GoogleCalendarEventID  *string `gorm:"index" json:"google_calendar_event_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Color     string    `gorm:"not null;default:#609A93" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
