package db

import (
	"github.com/taskleaf/taskleaf/internal/models"
	"gorm.io/gorm"
)

type CalendarEventRepository struct {
	database *gorm.DB
}

func NewCalendarEventRepository(database *gorm.DB) *CalendarEventRepository {
	return &CalendarEventRepository{database: database}
}

func (repo *CalendarEventRepository) ListByUser(userID uint) ([]models.CalendarEvent, error) {
	events := make([]models.CalendarEvent, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date ASC, time ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *CalendarEventRepository) FindByID(userID uint, eventID uint) (models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := repo.database.
		Where("id = ? AND user_id = ?", eventID, userID).
		First(&event).Error; err != nil {
		return models.CalendarEvent{}, err
	}
	return event, nil
}

func (repo *CalendarEventRepository) Create(event *models.CalendarEvent) error {
	return repo.database.Create(event).Error
}

func (repo *CalendarEventRepository) Save(event *models.CalendarEvent) error {
	return repo.database.Save(event).Error
}

func (repo *CalendarEventRepository) Delete(userID uint, eventID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.CalendarEvent{}, eventID).Error
}
