package services

import (
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
)

type AnalyticsTaskReader interface {
	ListAll(userID uint) ([]models.Task, error)
	ListDatedSince(userID uint, start time.Time) ([]models.Task, error)
}

// AnalyticsService scans the user's tasks and hands them to the pure
// metric computations. Nothing is persisted.
type AnalyticsService struct {
	tasks AnalyticsTaskReader
}

func NewAnalyticsService(tasks AnalyticsTaskReader) *AnalyticsService {
	return &AnalyticsService{tasks: tasks}
}

func (service *AnalyticsService) Metrics(userID uint, now time.Time) (AnalyticsMetrics, error) {
	tasks, err := service.tasks.ListAll(userID)
	if err != nil {
		return AnalyticsMetrics{}, err
	}
	return ComputeMetrics(tasks, now), nil
}

func (service *AnalyticsService) DailyStats(userID uint, days int, now time.Time) ([]DailyStat, error) {
	if days <= 0 {
		days = 30
	}
	start := dateOnly(now).AddDate(0, 0, -(days - 1))
	tasks, err := service.tasks.ListDatedSince(userID, start)
	if err != nil {
		return nil, err
	}
	return ComputeDailyStats(tasks, days, now), nil
}
