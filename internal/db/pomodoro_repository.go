package db

import (
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
	"gorm.io/gorm"
)

type PomodoroRepository struct {
	database *gorm.DB
}

func NewPomodoroRepository(database *gorm.DB) *PomodoroRepository {
	return &PomodoroRepository{database: database}
}

func (repo *PomodoroRepository) Create(session *models.PomodoroSession) error {
	return repo.database.Create(session).Error
}

func (repo *PomodoroRepository) Save(session *models.PomodoroSession) error {
	return repo.database.Save(session).Error
}

func (repo *PomodoroRepository) FindByID(userID uint, sessionID uint) (models.PomodoroSession, error) {
	var session models.PomodoroSession
	if err := repo.database.
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error; err != nil {
		return models.PomodoroSession{}, err
	}
	return session, nil
}

// FindActive returns the most recently started incomplete session.
// Nothing prevents several incomplete sessions per user; recency wins.
func (repo *PomodoroRepository) FindActive(userID uint) (models.PomodoroSession, error) {
	var session models.PomodoroSession
	if err := repo.database.
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("started_at DESC").
		First(&session).Error; err != nil {
		return models.PomodoroSession{}, err
	}
	return session, nil
}

func (repo *PomodoroRepository) ListStartedSince(userID uint, since time.Time) ([]models.PomodoroSession, error) {
	sessions := make([]models.PomodoroSession, 0)
	if err := repo.database.
		Where("user_id = ? AND started_at >= ?", userID, since).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *PomodoroRepository) ListWorkSessions(userID uint) ([]models.PomodoroSession, error) {
	sessions := make([]models.PomodoroSession, 0)
	if err := repo.database.
		Where("user_id = ? AND session_type = ?", userID, models.SessionTypeWork).
		Order("started_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *PomodoroRepository) Delete(userID uint, sessionID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.PomodoroSession{}, sessionID).Error
}
