package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/db"
	"github.com/taskleaf/taskleaf/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type taskCreateInput struct {
	Title                  string  `json:"title"`
	Description            string  `json:"description"`
	Date                   *string `json:"date"`
	Time                   string  `json:"time"`
	Priority               string  `json:"priority"`
	Location               string  `json:"location"`
	CategoryID             *uint   `json:"category_id"`
	SyncWithGoogleCalendar bool    `json:"sync_with_google_calendar"`
}

type taskUpdateInput struct {
	Title                  *string `json:"title"`
	Description            *string `json:"description"`
	Date                   *string `json:"date"`
	Time                   *string `json:"time"`
	Completed              *bool   `json:"completed"`
	Priority               *string `json:"priority"`
	Location               *string `json:"location"`
	CategoryID             *uint   `json:"category_id"`
	SyncWithGoogleCalendar *bool   `json:"sync_with_google_calendar"`
}

func (handler *Handler) GetTasks(c *fiber.Ctx) error {
	user := currentUser(c)

	query := db.TaskListQuery{
		Search:     c.Query("search"),
		FilterType: c.Query("filter_type"),
		Skip:       c.QueryInt("skip", 0),
		Limit:      c.QueryInt("limit", 100),
	}
	if raw := c.Query("completed"); raw != "" {
		completed := raw == "true" || raw == "1"
		query.Completed = &completed
	}

	tasks, err := handler.repositories.Tasks.List(user.ID, query, todayUTC())
	if err != nil {
		handler.logger.Error("list tasks failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to list tasks")
	}
	return c.JSON(tasks)
}

func (handler *Handler) CreateTask(c *fiber.Ctx) error {
	user := currentUser(c)

	input := taskCreateInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Title) == "" {
		return apiError(c, fiber.StatusBadRequest, "title is required")
	}

	date, err := parseTaskDate(input.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	task, outcome, err := handler.taskService.Create(c.Context(), user, services.TaskInput{
		Title:                  strings.TrimSpace(input.Title),
		Description:            input.Description,
		Date:                   date,
		TimeOfDay:              input.Time,
		Priority:               input.Priority,
		Location:               input.Location,
		CategoryID:             input.CategoryID,
		SyncWithGoogleCalendar: input.SyncWithGoogleCalendar,
	})
	if err != nil {
		handler.logger.Error("create task failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create task")
	}

	// Sync is best-effort: a failed remote create leaves the task local-only.
	if outcome.Status == services.SyncFailed {
		handler.logger.Warn("task created without calendar sync",
			zap.Uint("task_id", task.ID),
			zap.Error(outcome.Err),
		)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (handler *Handler) GetTask(c *fiber.Ctx) error {
	user := currentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID <= 0 {
		return notFound(c, "task")
	}

	task, err := handler.repositories.Tasks.FindByID(user.ID, uint(taskID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "task")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load task")
	}
	return c.JSON(task)
}

func (handler *Handler) UpdateTask(c *fiber.Ctx) error {
	user := currentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID <= 0 {
		return notFound(c, "task")
	}

	input := taskUpdateInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	date, err := parseTaskDate(input.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	patch := services.TaskPatch{
		Title:                  input.Title,
		Description:            input.Description,
		Date:                   date,
		TimeOfDay:              input.Time,
		Completed:              input.Completed,
		Priority:               input.Priority,
		Location:               input.Location,
		CategoryID:             input.CategoryID,
		SyncWithGoogleCalendar: input.SyncWithGoogleCalendar,
	}

	task, outcome, err := handler.taskService.Update(c.Context(), user, uint(taskID), patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "task")
		}
		handler.logger.Error("update task failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to update task")
	}

	if outcome.Status == services.SyncFailed {
		handler.logger.Warn("task updated, calendar sync failed",
			zap.Uint("task_id", task.ID),
			zap.Error(outcome.Err),
		)
	}
	return c.JSON(task)
}

func (handler *Handler) DeleteTask(c *fiber.Ctx) error {
	user := currentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID <= 0 {
		return notFound(c, "task")
	}

	if err := handler.taskService.Delete(c.Context(), user, uint(taskID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "task")
		}
		handler.logger.Error("delete task failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to delete task")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) SyncTask(c *fiber.Ctx) error {
	return handler.setTaskSync(c, true)
}

func (handler *Handler) UnsyncTask(c *fiber.Ctx) error {
	return handler.setTaskSync(c, false)
}

func (handler *Handler) setTaskSync(c *fiber.Ctx, enabled bool) error {
	user := currentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID <= 0 {
		return notFound(c, "task")
	}

	task, outcome, err := handler.taskService.SetSyncIntent(c.Context(), user, uint(taskID), enabled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "task")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to change sync state")
	}

	return c.JSON(fiber.Map{
		"task":        task,
		"sync_status": outcome.Status,
	})
}

func (handler *Handler) GetTaskStats(c *fiber.Ctx) error {
	user := currentUser(c)

	tasks, err := handler.repositories.Tasks.ListAll(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load tasks")
	}
	return c.JSON(services.ComputeTaskStats(tasks))
}

func parseTaskDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
	}
	return nil, errors.New("unparseable date")
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
