package services

import (
	"math"
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
)

type AnalyticsSummary struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	CompletionRate       float64 `json:"completion_rate"`
	ProductivityScore    int     `json:"productivity_score"`
	CurrentStreak        int     `json:"current_streak"`
	FocusHoursToday      float64 `json:"focus_hours_today"`
	GoalAchievementMonth float64 `json:"goal_achievement_month"`
}

type AnalyticsTrends struct {
	WeeklyCompletion []float64 `json:"weekly_completion"`
	WeeklyFocusHours []float64 `json:"weekly_focus_hours"`
	WeekLabels       []string  `json:"week_labels"`
}

type CategoryBreakdownItem struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

type PriorityBreakdown struct {
	Total     map[string]int `json:"total"`
	Completed map[string]int `json:"completed"`
}

type AnalyticsBreakdown struct {
	Categories []CategoryBreakdownItem `json:"categories"`
	Priority   PriorityBreakdown       `json:"priority"`
}

type AnalyticsInsights struct {
	CompletionRateChange   float64 `json:"completion_rate_change"`
	FocusHoursChange       float64 `json:"focus_hours_change"`
	StreakIsRecord         bool    `json:"streak_is_record"`
	MonthAchievementChange float64 `json:"month_achievement_change"`
}

type AnalyticsMetrics struct {
	Summary   AnalyticsSummary   `json:"summary"`
	Trends    AnalyticsTrends    `json:"trends"`
	Breakdown AnalyticsBreakdown `json:"breakdown"`
	Insights  AnalyticsInsights  `json:"insights"`
}

type DailyStat struct {
	Date           string  `json:"date"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// recordStreakThreshold marks a completion streak worth celebrating.
const recordStreakThreshold = 10

// ComputeMetrics derives the dashboard metrics snapshot from a user's
// full task set. It is a pure function of the tasks and the reference
// instant; every ratio degrades to zero on an empty cohort.
func ComputeMetrics(tasks []models.Task, now time.Time) AnalyticsMetrics {
	today := dateOnly(now)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	totalTasks := len(tasks)
	completedTasks := 0
	for _, task := range tasks {
		if task.Completed {
			completedTasks++
		}
	}
	completionRate := percentage(completedTasks, totalTasks)

	completedByDay := make(map[time.Time]int)
	totalByDay := make(map[time.Time]int)
	for _, task := range tasks {
		day, ok := taskDay(task)
		if !ok {
			continue
		}
		totalByDay[day]++
		if task.Completed {
			completedByDay[day]++
		}
	}

	weeklyCompletion := make([]float64, 0, 7)
	weeklyFocusHours := make([]float64, 0, 7)
	weekLabels := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, i-6)
		weekLabels = append(weekLabels, day.Format("Mon"))
		weeklyCompletion = append(weeklyCompletion, round1(percentage(completedByDay[day], totalByDay[day])))

		// Synthetic estimate, not measured focus time: half an hour per
		// completed task plus a sliding baseline.
		hours := float64(completedByDay[day])*0.5 + (3 + float64(i)*0.3)
		weeklyFocusHours = append(weeklyFocusHours, round1(hours))
	}

	recentTotal, recentCompleted := cohortCounts(tasks, weekAgo)
	recentRate := percentage(recentCompleted, recentTotal)

	productivityScore := int(math.Round(
		completionRate*0.4 +
			recentRate*0.3 +
			math.Min(float64(recentTotal)/20, 1)*30,
	))

	streak := 0
	for day := today; completedByDay[day] > 0; day = day.AddDate(0, 0, -1) {
		streak++
	}

	monthTotal, monthCompleted := cohortCounts(tasks, monthAgo)
	monthRate := percentage(monthCompleted, monthTotal)

	categories := categoryBreakdown(tasks, totalTasks)
	priority := priorityBreakdown(tasks)

	focusHoursChange := 0.0
	if len(weeklyFocusHours) > 1 {
		focusHoursChange = round1(weeklyFocusHours[6] - weeklyFocusHours[5])
	}

	return AnalyticsMetrics{
		Summary: AnalyticsSummary{
			TotalTasks:           totalTasks,
			CompletedTasks:       completedTasks,
			CompletionRate:       round1(completionRate),
			ProductivityScore:    productivityScore,
			CurrentStreak:        streak,
			FocusHoursToday:      weeklyFocusHours[6],
			GoalAchievementMonth: round1(monthRate),
		},
		Trends: AnalyticsTrends{
			WeeklyCompletion: weeklyCompletion,
			WeeklyFocusHours: weeklyFocusHours,
			WeekLabels:       weekLabels,
		},
		Breakdown: AnalyticsBreakdown{
			Categories: categories,
			Priority:   priority,
		},
		Insights: AnalyticsInsights{
			CompletionRateChange:   round1(recentRate - completionRate),
			FocusHoursChange:       focusHoursChange,
			StreakIsRecord:         streak >= recordStreakThreshold,
			MonthAchievementChange: round1(monthRate - completionRate),
		},
	}
}

// ComputeDailyStats produces exactly `days` entries ending today,
// ascending by date and zero-filled for days without tasks.
func ComputeDailyStats(tasks []models.Task, days int, now time.Time) []DailyStat {
	if days <= 0 {
		days = 30
	}
	today := dateOnly(now)
	start := today.AddDate(0, 0, -(days - 1))

	totals := make(map[time.Time]int, days)
	completed := make(map[time.Time]int, days)
	for _, task := range tasks {
		day, ok := taskDay(task)
		if !ok || day.Before(start) || day.After(today) {
			continue
		}
		totals[day]++
		if task.Completed {
			completed[day]++
		}
	}

	stats := make([]DailyStat, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		stats = append(stats, DailyStat{
			Date:           day.Format("2006-01-02"),
			Total:          totals[day],
			Completed:      completed[day],
			CompletionRate: round1(percentage(completed[day], totals[day])),
		})
	}
	return stats
}

func cohortCounts(tasks []models.Task, since time.Time) (total int, completed int) {
	for _, task := range tasks {
		day, ok := taskDay(task)
		if !ok || day.Before(since) {
			continue
		}
		total++
		if task.Completed {
			completed++
		}
	}
	return total, completed
}

// categoryBreakdown keeps first-seen category order so repeated calls
// over the same rows serialize identically.
func categoryBreakdown(tasks []models.Task, totalTasks int) []CategoryBreakdownItem {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, task := range tasks {
		if task.Category == nil {
			continue
		}
		name := task.Category.Name
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	items := make([]CategoryBreakdownItem, 0, len(order))
	for _, name := range order {
		items = append(items, CategoryBreakdownItem{
			Name:       name,
			Value:      counts[name],
			Percentage: round1(percentage(counts[name], totalTasks)),
		})
	}
	return items
}

// priorityBreakdown counts over the fixed priority set; values outside
// it are skipped, not errored.
func priorityBreakdown(tasks []models.Task) PriorityBreakdown {
	total := map[string]int{
		models.PriorityHigh:   0,
		models.PriorityMedium: 0,
		models.PriorityLow:    0,
	}
	completed := map[string]int{
		models.PriorityHigh:   0,
		models.PriorityMedium: 0,
		models.PriorityLow:    0,
	}
	for _, task := range tasks {
		if _, known := total[task.Priority]; !known {
			continue
		}
		total[task.Priority]++
		if task.Completed {
			completed[task.Priority]++
		}
	}
	return PriorityBreakdown{Total: total, Completed: completed}
}

func taskDay(task models.Task) (time.Time, bool) {
	if task.Date == nil {
		return time.Time{}, false
	}
	return dateOnly(*task.Date), true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func percentage(part int, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
