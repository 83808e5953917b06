package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) GetAnalyticsMetrics(c *fiber.Ctx) error {
	user := currentUser(c)

	metrics, err := handler.analytics.Metrics(user.ID, time.Now().UTC())
	if err != nil {
		handler.logger.Error("analytics metrics failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to compute metrics")
	}
	return c.JSON(metrics)
}

func (handler *Handler) GetDailyStats(c *fiber.Ctx) error {
	user := currentUser(c)
	days := c.QueryInt("days", 30)

	stats, err := handler.analytics.DailyStats(user.ID, days, time.Now().UTC())
	if err != nil {
		handler.logger.Error("daily stats failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to compute daily stats")
	}
	return c.JSON(fiber.Map{"stats": stats})
}
