package services

import (
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
)

type PomodoroSessionStore interface {
	Create(session *models.PomodoroSession) error
	Save(session *models.PomodoroSession) error
	FindByID(userID uint, sessionID uint) (models.PomodoroSession, error)
	FindActive(userID uint) (models.PomodoroSession, error)
	ListStartedSince(userID uint, since time.Time) ([]models.PomodoroSession, error)
	ListWorkSessions(userID uint) ([]models.PomodoroSession, error)
	Delete(userID uint, sessionID uint) error
}

type PomodoroStats struct {
	TodaySessions     int             `json:"today_sessions"`
	TodayFocusMinutes int             `json:"today_focus_minutes"`
	WeekSessions      int             `json:"week_sessions"`
	WeekFocusMinutes  int             `json:"week_focus_minutes"`
	TotalSessions     int             `json:"total_sessions"`
	TotalFocusHours   float64         `json:"total_focus_hours"`
	DailyBreakdown    []PomodoroDaily `json:"daily_breakdown"`
}

type PomodoroDaily struct {
	Date         string `json:"date"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focus_minutes"`
}

type PomodoroService struct {
	sessions PomodoroSessionStore
}

func NewPomodoroService(sessions PomodoroSessionStore) *PomodoroService {
	return &PomodoroService{sessions: sessions}
}

// Start opens a new session with nothing elapsed. It does not close any
// session already running; the active-session query picks the newest.
func (service *PomodoroService) Start(userID uint, sessionType string, targetDuration int, now time.Time) (models.PomodoroSession, error) {
	if sessionType == "" {
		sessionType = models.SessionTypeWork
	}
	if targetDuration <= 0 {
		targetDuration = models.DefaultTargetDuration
	}

	session := models.PomodoroSession{
		UserID:         userID,
		SessionType:    sessionType,
		TargetDuration: targetDuration,
		ElapsedMinutes: 0,
		IsCompleted:    false,
		StartedAt:      now,
		LastUpdated:    now,
	}
	if err := service.sessions.Create(&session); err != nil {
		return models.PomodoroSession{}, err
	}
	return session, nil
}

// Update overwrites the cumulative elapsed minutes reported by the
// client tick; last write wins. A true completion flag finalizes the
// session and stamps CompletedAt.
func (service *PomodoroService) Update(userID uint, sessionID uint, elapsedMinutes int, completed bool, now time.Time) (models.PomodoroSession, error) {
	session, err := service.sessions.FindByID(userID, sessionID)
	if err != nil {
		return models.PomodoroSession{}, err
	}

	session.ElapsedMinutes = elapsedMinutes
	session.LastUpdated = now
	if completed {
		session.IsCompleted = true
		completedAt := now
		session.CompletedAt = &completedAt
	}

	if err := service.sessions.Save(&session); err != nil {
		return models.PomodoroSession{}, err
	}
	return session, nil
}

func (service *PomodoroService) Active(userID uint) (models.PomodoroSession, error) {
	return service.sessions.FindActive(userID)
}

func (service *PomodoroService) Recent(userID uint, days int, now time.Time) ([]models.PomodoroSession, error) {
	if days <= 0 {
		days = 7
	}
	return service.sessions.ListStartedSince(userID, now.AddDate(0, 0, -days))
}

func (service *PomodoroService) Delete(userID uint, sessionID uint) error {
	if _, err := service.sessions.FindByID(userID, sessionID); err != nil {
		return err
	}
	return service.sessions.Delete(userID, sessionID)
}

// Stats aggregates work-type sessions only. Session counts require
// completion; focus minutes sum every session's elapsed time.
func (service *PomodoroService) Stats(userID uint, now time.Time) (PomodoroStats, error) {
	sessions, err := service.sessions.ListWorkSessions(userID)
	if err != nil {
		return PomodoroStats{}, err
	}
	return ComputePomodoroStats(sessions, now), nil
}

// ComputePomodoroStats is the pure aggregation over work sessions.
func ComputePomodoroStats(sessions []models.PomodoroSession, now time.Time) PomodoroStats {
	today := dateOnly(now)
	weekAgo := today.AddDate(0, 0, -7)

	stats := PomodoroStats{}
	totalMinutes := 0
	completedByDay := make(map[time.Time]int)
	minutesByDay := make(map[time.Time]int)

	for _, session := range sessions {
		day := dateOnly(session.StartedAt)
		minutesByDay[day] += session.ElapsedMinutes
		if session.IsCompleted {
			completedByDay[day]++
			stats.TotalSessions++
		}
		totalMinutes += session.ElapsedMinutes

		if day.Equal(today) {
			stats.TodayFocusMinutes += session.ElapsedMinutes
			if session.IsCompleted {
				stats.TodaySessions++
			}
		}
		if !day.Before(weekAgo) {
			stats.WeekFocusMinutes += session.ElapsedMinutes
			if session.IsCompleted {
				stats.WeekSessions++
			}
		}
	}

	stats.TotalFocusHours = round1(float64(totalMinutes) / 60)

	stats.DailyBreakdown = make([]PomodoroDaily, 0, 7)
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, i-6)
		stats.DailyBreakdown = append(stats.DailyBreakdown, PomodoroDaily{
			Date:         day.Format("2006-01-02"),
			Sessions:     completedByDay[day],
			FocusMinutes: minutesByDay[day],
		})
	}
	return stats
}
