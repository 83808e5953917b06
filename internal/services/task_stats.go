package services

import "github.com/taskleaf/taskleaf/internal/models"

// TaskStats backs the dashboard summary endpoint.
type TaskStats struct {
	TotalTasks          int            `json:"total_tasks"`
	CompletedTasks      int            `json:"completed_tasks"`
	PendingTasks        int            `json:"pending_tasks"`
	CompletionRate      float64        `json:"completion_rate"`
	TasksByPriority     map[string]int `json:"tasks_by_priority"`
	CompletedByPriority map[string]int `json:"completed_by_priority"`
	TasksByCategory     map[string]int `json:"tasks_by_category"`
}

func ComputeTaskStats(tasks []models.Task) TaskStats {
	total := len(tasks)
	completed := 0
	byCategory := make(map[string]int)
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
		if task.Category != nil {
			byCategory[task.Category.Name]++
		}
	}

	priority := priorityBreakdown(tasks)

	return TaskStats{
		TotalTasks:          total,
		CompletedTasks:      completed,
		PendingTasks:        total - completed,
		CompletionRate:      round1(percentage(completed, total)),
		TasksByPriority:     priority.Total,
		CompletedByPriority: priority.Completed,
		TasksByCategory:     byCategory,
	}
}
