package services

import (
	"context"
	"time"

	"github.com/taskleaf/taskleaf/internal/db"
	"github.com/taskleaf/taskleaf/internal/models"
	"go.uber.org/zap"
)

type TaskStore interface {
	List(userID uint, query db.TaskListQuery, today time.Time) ([]models.Task, error)
	ListAll(userID uint) ([]models.Task, error)
	FindByID(userID uint, taskID uint) (models.Task, error)
	Create(task *models.Task) error
	Save(task *models.Task) error
	UpdateSyncState(taskID uint, syncEnabled bool, remoteEventID *string) error
	Delete(userID uint, taskID uint) error
}

// WeatherLookup enriches tasks that carry a location. A nil snapshot
// means the lookup failed and the task ships without weather.
type WeatherLookup interface {
	Lookup(ctx context.Context, location string) *models.WeatherSnapshot
}

// TaskInput is the full payload for task creation.
type TaskInput struct {
	Title                  string
	Description            string
	Date                   *time.Time
	TimeOfDay              string
	Priority               string
	Location               string
	CategoryID             *uint
	SyncWithGoogleCalendar bool
}

// TaskPatch updates only the fields the client sent.
type TaskPatch struct {
	Title                  *string
	Description            *string
	Date                   *time.Time
	TimeOfDay              *string
	Completed              *bool
	Priority               *string
	Location               *string
	CategoryID             *uint
	SyncWithGoogleCalendar *bool
}

// TaskService owns task mutations and their side effects: the weather
// snapshot on location changes and the best-effort calendar
// reconciliation. Local writes always commit; remote failures only show
// up in the returned SyncOutcome.
type TaskService struct {
	tasks   TaskStore
	weather WeatherLookup
	sync    *SyncService
	logger  *zap.Logger
}

func NewTaskService(tasks TaskStore, weather WeatherLookup, sync *SyncService, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:   tasks,
		weather: weather,
		sync:    sync,
		logger:  logger.Named("tasks"),
	}
}

func (service *TaskService) Create(ctx context.Context, user *models.User, input TaskInput) (models.Task, SyncOutcome, error) {
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:                 user.ID,
		Title:                  input.Title,
		Description:            input.Description,
		Date:                   input.Date,
		TimeOfDay:              input.TimeOfDay,
		Priority:               priority,
		Location:               input.Location,
		CategoryID:             input.CategoryID,
		SyncWithGoogleCalendar: input.SyncWithGoogleCalendar,
	}

	if task.Location != "" {
		task.Weather = service.weather.Lookup(ctx, task.Location)
	}

	if err := service.tasks.Create(&task); err != nil {
		return models.Task{}, SyncOutcome{}, err
	}

	outcome := service.reconcile(ctx, user, SyncState{SyncEnabled: false, RemoteEventID: nil}, &task)
	return task, outcome, nil
}

func (service *TaskService) Update(ctx context.Context, user *models.User, taskID uint, patch TaskPatch) (models.Task, SyncOutcome, error) {
	task, err := service.tasks.FindByID(user.ID, taskID)
	if err != nil {
		return models.Task{}, SyncOutcome{}, err
	}

	oldState := SyncState{
		SyncEnabled:   task.SyncWithGoogleCalendar,
		RemoteEventID: task.GoogleCalendarEventID,
	}
	oldLocation := task.Location

	applyTaskPatch(&task, patch)

	if task.Location != "" && task.Location != oldLocation {
		if snapshot := service.weather.Lookup(ctx, task.Location); snapshot != nil {
			task.Weather = snapshot
		}
	}

	if err := service.tasks.Save(&task); err != nil {
		return models.Task{}, SyncOutcome{}, err
	}

	outcome := service.reconcile(ctx, user, oldState, &task)
	return task, outcome, nil
}

// Delete removes the remote counterpart first (best-effort) and the
// local row regardless of the remote outcome.
func (service *TaskService) Delete(ctx context.Context, user *models.User, taskID uint) error {
	task, err := service.tasks.FindByID(user.ID, taskID)
	if err != nil {
		return err
	}

	if task.GoogleCalendarEventID != nil {
		outcome := service.sync.DeleteRemote(ctx, user, *task.GoogleCalendarEventID)
		if outcome.Status == SyncFailed {
			service.logger.Warn("remote delete before task delete failed",
				zap.Uint("task_id", task.ID),
				zap.Error(outcome.Err),
			)
		}
	}

	return service.tasks.Delete(user.ID, taskID)
}

// SetSyncIntent flips the sync flag alone and reconciles.
func (service *TaskService) SetSyncIntent(ctx context.Context, user *models.User, taskID uint, enabled bool) (models.Task, SyncOutcome, error) {
	patch := TaskPatch{SyncWithGoogleCalendar: &enabled}
	return service.Update(ctx, user, taskID, patch)
}

// reconcile runs the sync state machine and persists whatever remote id
// the outcome settled on.
func (service *TaskService) reconcile(ctx context.Context, user *models.User, oldState SyncState, task *models.Task) SyncOutcome {
	outcome := service.sync.Reconcile(ctx, user, oldState, task)
	if outcome.Status == SyncSkipped && !task.SyncWithGoogleCalendar && oldState.RemoteEventID == nil {
		return outcome
	}

	if sameEventID(task.GoogleCalendarEventID, outcome.EventID) {
		return outcome
	}

	task.GoogleCalendarEventID = outcome.EventID
	if err := service.tasks.UpdateSyncState(task.ID, task.SyncWithGoogleCalendar, outcome.EventID); err != nil {
		service.logger.Error("persist sync state failed",
			zap.Uint("task_id", task.ID),
			zap.Error(err),
		)
	}
	return outcome
}

func sameEventID(a *string, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func applyTaskPatch(task *models.Task, patch TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Date != nil {
		task.Date = patch.Date
	}
	if patch.TimeOfDay != nil {
		task.TimeOfDay = *patch.TimeOfDay
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Location != nil {
		task.Location = *patch.Location
	}
	if patch.CategoryID != nil {
		task.CategoryID = patch.CategoryID
	}
	if patch.SyncWithGoogleCalendar != nil {
		task.SyncWithGoogleCalendar = *patch.SyncWithGoogleCalendar
	}
}
