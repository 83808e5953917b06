package db

import (
	"github.com/taskleaf/taskleaf/internal/models"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	database *gorm.DB
}

func NewCategoryRepository(database *gorm.DB) *CategoryRepository {
	return &CategoryRepository{database: database}
}

func (repo *CategoryRepository) ListByUser(userID uint) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (repo *CategoryRepository) FindByID(userID uint, categoryID uint) (models.Category, error) {
	var category models.Category
	if err := repo.database.
		Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (repo *CategoryRepository) Create(category *models.Category) error {
	return repo.database.Create(category).Error
}

func (repo *CategoryRepository) Save(category *models.Category) error {
	return repo.database.Save(category).Error
}

// Delete removes the category and detaches its tasks; tasks survive with
// a null category reference.
func (repo *CategoryRepository) Delete(userID uint, categoryID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.Category{}, categoryID).Error
	})
}
