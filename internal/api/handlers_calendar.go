package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/models"
	"github.com/taskleaf/taskleaf/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type calendarEventInput struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	Location          string `json:"location"`
	Recurrence        string `json:"recurrence"`
	RecurrenceEndDate string `json:"recurrence_end_date"`
	Tag               string `json:"tag"`
	Color             string `json:"color"`
}

func (input *calendarEventInput) validate() string {
	if strings.TrimSpace(input.Title) == "" {
		return "title is required"
	}
	if input.Date != "" {
		if _, err := time.Parse("2006-01-02", input.Date); err != nil {
			return "date must be YYYY-MM-DD"
		}
	}
	if input.Recurrence != "" && !models.ValidRecurrence(input.Recurrence) {
		return "invalid recurrence"
	}
	if input.RecurrenceEndDate != "" {
		if _, err := time.Parse("2006-01-02", input.RecurrenceEndDate); err != nil {
			return "recurrence_end_date must be YYYY-MM-DD"
		}
	}
	return ""
}

func (handler *Handler) GetCalendarEvents(c *fiber.Ctx) error {
	user := currentUser(c)

	events, err := handler.repositories.CalendarEvents.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list events")
	}
	return c.JSON(events)
}

func (handler *Handler) CreateCalendarEvent(c *fiber.Ctx) error {
	user := currentUser(c)

	input := calendarEventInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if detail := input.validate(); detail != "" {
		return apiError(c, fiber.StatusBadRequest, detail)
	}

	event := models.CalendarEvent{
		UserID:            user.ID,
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		Date:              input.Date,
		TimeOfDay:         input.Time,
		Location:          input.Location,
		Recurrence:        input.Recurrence,
		RecurrenceEndDate: input.RecurrenceEndDate,
		Tag:               input.Tag,
		Color:             input.Color,
	}
	if event.Recurrence == "" {
		event.Recurrence = models.RecurrenceNone
	}
	if event.Color == "" {
		event.Color = models.DefaultEventColor
	}

	if err := handler.repositories.CalendarEvents.Create(&event); err != nil {
		handler.logger.Error("create calendar event failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create event")
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (handler *Handler) UpdateCalendarEvent(c *fiber.Ctx) error {
	user := currentUser(c)
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return notFound(c, "event")
	}

	input := calendarEventInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if detail := input.validate(); detail != "" {
		return apiError(c, fiber.StatusBadRequest, detail)
	}

	event, err := handler.repositories.CalendarEvents.FindByID(user.ID, uint(eventID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "event")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load event")
	}

	event.Title = strings.TrimSpace(input.Title)
	event.Description = input.Description
	event.Date = input.Date
	event.TimeOfDay = input.Time
	event.Location = input.Location
	event.Recurrence = input.Recurrence
	if event.Recurrence == "" {
		event.Recurrence = models.RecurrenceNone
	}
	event.RecurrenceEndDate = input.RecurrenceEndDate
	event.Tag = input.Tag
	if input.Color != "" {
		event.Color = input.Color
	}

	if err := handler.repositories.CalendarEvents.Save(&event); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update event")
	}
	return c.JSON(event)
}

func (handler *Handler) DeleteCalendarEvent(c *fiber.Ctx) error {
	user := currentUser(c)
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return notFound(c, "event")
	}

	if _, err := handler.repositories.CalendarEvents.FindByID(user.ID, uint(eventID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "event")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load event")
	}

	if err := handler.repositories.CalendarEvents.Delete(user.ID, uint(eventID)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete event")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Remote calendar endpoints. Unlike the task-sync side effects these
// are the request's whole purpose, so provider failures surface to the
// caller.

func (handler *Handler) GetGoogleEvents(c *fiber.Ctx) error {
	user := currentUser(c)
	if !user.GoogleConnected() {
		return apiError(c, fiber.StatusBadRequest, "Google not connected. Please sign in with Google again.")
	}

	items, err := handler.calendar.ListEvents(c.Context(), user.GoogleRefreshToken, c.Query("timeMin"), c.Query("timeMax"))
	if err != nil {
		handler.logger.Warn("google events fetch failed", zap.Error(err))
		return apiError(c, fiber.StatusBadRequest, "failed to fetch Google Calendar events")
	}
	return c.JSON(fiber.Map{"items": items})
}

func (handler *Handler) CreateGoogleEvent(c *fiber.Ctx) error {
	user := currentUser(c)
	if !user.GoogleConnected() {
		return apiError(c, fiber.StatusBadRequest, "Google not connected. Please sign in with Google again.")
	}

	input := calendarEventInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if detail := input.validate(); detail != "" {
		return apiError(c, fiber.StatusBadRequest, detail)
	}

	body := services.BuildEvent(services.EventFields{
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		Location:          input.Location,
		Date:              input.Date,
		TimeOfDay:         input.Time,
		Recurrence:        input.Recurrence,
		RecurrenceEndDate: input.RecurrenceEndDate,
	}, time.Now().UTC())

	created, err := handler.calendar.CreateEvent(c.Context(), user.GoogleRefreshToken, body)
	if err != nil {
		handler.logger.Warn("google event create failed", zap.Error(err))
		return apiError(c, fiber.StatusBadRequest, "failed to create Google Calendar event")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (handler *Handler) UpdateGoogleEvent(c *fiber.Ctx) error {
	user := currentUser(c)
	if !user.GoogleConnected() {
		return apiError(c, fiber.StatusBadRequest, "Google not connected. Please sign in with Google again.")
	}

	eventID := c.Params("id")
	if eventID == "" {
		return notFound(c, "event")
	}

	input := calendarEventInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if detail := input.validate(); detail != "" {
		return apiError(c, fiber.StatusBadRequest, detail)
	}

	body := services.BuildEvent(services.EventFields{
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		Location:          input.Location,
		Date:              input.Date,
		TimeOfDay:         input.Time,
		Recurrence:        input.Recurrence,
		RecurrenceEndDate: input.RecurrenceEndDate,
	}, time.Now().UTC())

	updated, err := handler.calendar.UpdateEvent(c.Context(), user.GoogleRefreshToken, eventID, body)
	if err != nil {
		if handler.calendar.IsNotFound(err) {
			return notFound(c, "event")
		}
		handler.logger.Warn("google event update failed", zap.Error(err))
		return apiError(c, fiber.StatusBadRequest, "failed to update Google Calendar event")
	}
	return c.JSON(updated)
}

func (handler *Handler) DeleteGoogleEvent(c *fiber.Ctx) error {
	user := currentUser(c)
	if !user.GoogleConnected() {
		return apiError(c, fiber.StatusBadRequest, "Google not connected. Please sign in with Google again.")
	}

	eventID := c.Params("id")
	if eventID == "" {
		return notFound(c, "event")
	}

	if err := handler.calendar.DeleteEvent(c.Context(), user.GoogleRefreshToken, eventID); err != nil {
		if handler.calendar.IsNotFound(err) {
			return notFound(c, "event")
		}
		handler.logger.Warn("google event delete failed", zap.Error(err))
		return apiError(c, fiber.StatusBadRequest, "failed to delete Google Calendar event")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
