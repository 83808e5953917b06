package db

import (
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
	"gorm.io/gorm"
)

const (
	TaskFilterToday    = "today"
	TaskFilterUpcoming = "upcoming"
	TaskFilterOverdue  = "overdue"
)

// TaskListQuery carries the optional list filters. Zero values mean
// "no filter"; Limit falls back to 100.
type TaskListQuery struct {
	Completed  *bool
	Search     string
	FilterType string
	Skip       int
	Limit      int
}

type TaskRepository struct {
	database *gorm.DB
}

func NewTaskRepository(database *gorm.DB) *TaskRepository {
	return &TaskRepository{database: database}
}

func (repo *TaskRepository) List(userID uint, query TaskListQuery, today time.Time) ([]models.Task, error) {
	dbQuery := repo.database.Model(&models.Task{}).
		Preload("Category").
		Where("user_id = ?", userID)

	if query.Completed != nil {
		dbQuery = dbQuery.Where("completed = ?", *query.Completed)
	}

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		dbQuery = dbQuery.Where(
			"lower(title) LIKE lower(?) OR lower(description) LIKE lower(?)",
			pattern, pattern,
		)
	}

	switch query.FilterType {
	case TaskFilterToday:
		dbQuery = dbQuery.Where("date = ?", today)
	case TaskFilterUpcoming:
		dbQuery = dbQuery.Where("date > ?", today)
	case TaskFilterOverdue:
		dbQuery = dbQuery.Where("date < ? AND completed = ?", today, false)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}

	tasks := make([]models.Task, 0)
	if err := dbQuery.
		Order("date ASC, created_at DESC").
		Offset(query.Skip).
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAll returns every task the user owns, category preloaded. The
// analytics engine runs over this unbounded scan.
func (repo *TaskRepository) ListAll(userID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Preload("Category").
		Where("user_id = ?", userID).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) ListDatedSince(userID uint, start time.Time) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ?", userID, start).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) FindByID(userID uint, taskID uint) (models.Task, error) {
	var task models.Task
	if err := repo.database.
		Preload("Category").
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (repo *TaskRepository) Create(task *models.Task) error {
	return repo.database.Create(task).Error
}

func (repo *TaskRepository) Save(task *models.Task) error {
	return repo.database.Save(task).Error
}

// UpdateSyncState persists just the sync columns after reconciliation so
// a slow remote call cannot clobber concurrent edits to other fields.
func (repo *TaskRepository) UpdateSyncState(taskID uint, syncEnabled bool, remoteEventID *string) error {
	return repo.database.Model(&models.Task{}).Where("id = ?", taskID).Updates(map[string]any{
		"sync_with_google_calendar": syncEnabled,
		"google_calendar_event_id":  remoteEventID,
	}).Error
}

func (repo *TaskRepository) Delete(userID uint, taskID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.Task{}, taskID).Error
}
