package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type pomodoroCreateInput struct {
	SessionType    string `json:"session_type"`
	TargetDuration int    `json:"target_duration"`
}

type pomodoroUpdateInput struct {
	ElapsedMinutes int  `json:"elapsed_minutes"`
	IsCompleted    bool `json:"is_completed"`
}

func (handler *Handler) CreatePomodoroSession(c *fiber.Ctx) error {
	user := currentUser(c)

	input := pomodoroCreateInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.SessionType != "" && !models.ValidSessionType(input.SessionType) {
		return apiError(c, fiber.StatusBadRequest, "invalid session type")
	}

	session, err := handler.pomodoro.Start(user.ID, input.SessionType, input.TargetDuration, time.Now().UTC())
	if err != nil {
		handler.logger.Error("start pomodoro failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to start session")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (handler *Handler) UpdatePomodoroSession(c *fiber.Ctx) error {
	user := currentUser(c)
	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID <= 0 {
		return notFound(c, "session")
	}

	input := pomodoroUpdateInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.ElapsedMinutes < 0 {
		return apiError(c, fiber.StatusBadRequest, "elapsed_minutes must not be negative")
	}

	session, err := handler.pomodoro.Update(user.ID, uint(sessionID), input.ElapsedMinutes, input.IsCompleted, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "session")
		}
		handler.logger.Error("update pomodoro failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to update session")
	}
	return c.JSON(session)
}

// GetActivePomodoroSession returns the newest incomplete session, or a
// bare null body when the user has none running.
func (handler *Handler) GetActivePomodoroSession(c *fiber.Ctx) error {
	user := currentUser(c)

	session, err := handler.pomodoro.Active(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(nil)
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load active session")
	}
	return c.JSON(session)
}

func (handler *Handler) GetPomodoroSessions(c *fiber.Ctx) error {
	user := currentUser(c)
	days := c.QueryInt("days", 7)

	sessions, err := handler.pomodoro.Recent(user.ID, days, time.Now().UTC())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}
	return c.JSON(sessions)
}

func (handler *Handler) GetPomodoroStats(c *fiber.Ctx) error {
	user := currentUser(c)

	stats, err := handler.pomodoro.Stats(user.ID, time.Now().UTC())
	if err != nil {
		handler.logger.Error("pomodoro stats failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	return c.JSON(stats)
}

func (handler *Handler) DeletePomodoroSession(c *fiber.Ctx) error {
	user := currentUser(c)
	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID <= 0 {
		return notFound(c, "session")
	}

	if err := handler.pomodoro.Delete(user.ID, uint(sessionID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "session")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to delete session")
	}
	return c.JSON(fiber.Map{"message": "session deleted"})
}
