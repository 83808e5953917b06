package services

import (
	"testing"
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
)

func workSession(startedAt time.Time, elapsed int, completed bool) models.PomodoroSession {
	return models.PomodoroSession{
		SessionType:    models.SessionTypeWork,
		TargetDuration: models.DefaultTargetDuration,
		ElapsedMinutes: elapsed,
		IsCompleted:    completed,
		StartedAt:      startedAt,
		LastUpdated:    startedAt,
	}
}

func TestComputePomodoroStatsToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := []models.PomodoroSession{
		workSession(morning, 25, true),
		workSession(morning.Add(time.Hour), 25, true),
		workSession(morning.Add(2*time.Hour), 10, false),
	}

	stats := ComputePomodoroStats(sessions, now)

	if stats.TodaySessions != 2 {
		t.Fatalf("only completed sessions count, expected 2, got %d", stats.TodaySessions)
	}
	if stats.TodayFocusMinutes != 60 {
		t.Fatalf("focus minutes sum all sessions, expected 60, got %d", stats.TodayFocusMinutes)
	}
	if stats.TotalSessions != 2 {
		t.Fatalf("expected 2 total sessions, got %d", stats.TotalSessions)
	}
	if stats.TotalFocusHours != 1 {
		t.Fatalf("expected 1 focus hour, got %v", stats.TotalFocusHours)
	}
}

func TestComputePomodoroStatsWeekWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	inWeek := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	outOfWeek := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

	sessions := []models.PomodoroSession{
		workSession(inWeek, 25, true),
		workSession(outOfWeek, 25, true),
	}

	stats := ComputePomodoroStats(sessions, now)

	if stats.WeekSessions != 1 || stats.WeekFocusMinutes != 25 {
		t.Fatalf("unexpected week window: sessions=%d minutes=%d", stats.WeekSessions, stats.WeekFocusMinutes)
	}
	if stats.TotalSessions != 2 || stats.TotalFocusHours != 0.8 {
		t.Fatalf("totals cover everything: sessions=%d hours=%v", stats.TotalSessions, stats.TotalFocusHours)
	}
}

func TestComputePomodoroStatsDailyBreakdown(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	sessions := []models.PomodoroSession{
		workSession(yesterday, 25, true),
		workSession(yesterday.Add(time.Hour), 15, false),
	}

	stats := ComputePomodoroStats(sessions, now)

	if len(stats.DailyBreakdown) != 7 {
		t.Fatalf("expected 7 breakdown entries, got %d", len(stats.DailyBreakdown))
	}
	if stats.DailyBreakdown[0].Date != "2026-03-04" {
		t.Fatalf("expected window to start 2026-03-04, got %s", stats.DailyBreakdown[0].Date)
	}
	entry := stats.DailyBreakdown[5]
	if entry.Date != "2026-03-09" || entry.Sessions != 1 || entry.FocusMinutes != 40 {
		t.Fatalf("unexpected yesterday entry: %+v", entry)
	}
	if stats.DailyBreakdown[6].Sessions != 0 {
		t.Fatalf("today has no sessions, got %+v", stats.DailyBreakdown[6])
	}
}

func TestComputePomodoroStatsEmpty(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	stats := ComputePomodoroStats(nil, now)

	if stats.TotalSessions != 0 || stats.TotalFocusHours != 0 {
		t.Fatalf("unexpected totals on empty input: %+v", stats)
	}
	if len(stats.DailyBreakdown) != 7 {
		t.Fatalf("breakdown stays 7 entries even when empty, got %d", len(stats.DailyBreakdown))
	}
}
