package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type categoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (handler *Handler) GetCategories(c *fiber.Ctx) error {
	user := currentUser(c)

	categories, err := handler.repositories.Categories.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list categories")
	}
	return c.JSON(categories)
}

func (handler *Handler) CreateCategory(c *fiber.Ctx) error {
	user := currentUser(c)

	input := categoryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Name) == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}

	category := models.Category{
		UserID: user.ID,
		Name:   strings.TrimSpace(input.Name),
		Color:  input.Color,
	}
	if category.Color == "" {
		category.Color = "#609A93"
	}

	if err := handler.repositories.Categories.Create(&category); err != nil {
		handler.logger.Error("create category failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (handler *Handler) UpdateCategory(c *fiber.Ctx) error {
	user := currentUser(c)
	categoryID, err := c.ParamsInt("id")
	if err != nil || categoryID <= 0 {
		return notFound(c, "category")
	}

	input := categoryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.Name) == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}

	category, err := handler.repositories.Categories.FindByID(user.ID, uint(categoryID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "category")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load category")
	}

	category.Name = strings.TrimSpace(input.Name)
	if input.Color != "" {
		category.Color = input.Color
	}

	if err := handler.repositories.Categories.Save(&category); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update category")
	}
	return c.JSON(category)
}

// DeleteCategory removes the tag; tasks that referenced it survive with
// no category.
func (handler *Handler) DeleteCategory(c *fiber.Ctx) error {
	user := currentUser(c)
	categoryID, err := c.ParamsInt("id")
	if err != nil || categoryID <= 0 {
		return notFound(c, "category")
	}

	if _, err := handler.repositories.Categories.FindByID(user.ID, uint(categoryID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "category")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load category")
	}

	if err := handler.repositories.Categories.Delete(user.ID, uint(categoryID)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete category")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
