package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// CalendarProvider is the narrow boundary to the remote calendar. Every
// call exchanges the user's refresh credential for a fresh access token.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, refreshToken string, event *calendar.Event) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, refreshToken string, eventID string, event *calendar.Event) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, refreshToken string, eventID string) error
	IsNotFound(err error) bool
}

type SyncStatus string

const (
	SyncSkipped SyncStatus = "skipped"
	SyncCreated SyncStatus = "created"
	SyncUpdated SyncStatus = "updated"
	SyncDeleted SyncStatus = "deleted"
	SyncFailed  SyncStatus = "failed"
)

// SyncOutcome makes the result of a best-effort remote call visible at
// the call site. EventID carries the remote id the task should keep
// after the reconciliation, regardless of outcome.
type SyncOutcome struct {
	Status  SyncStatus
	EventID *string
	Err     error
}

// SyncState is the (sync flag, remote event id) pair the reconciliation
// transition table runs on.
type SyncState struct {
	SyncEnabled   bool
	RemoteEventID *string
}

type SyncService struct {
	provider CalendarProvider
	logger   *zap.Logger
}

func NewSyncService(provider CalendarProvider, logger *zap.Logger) *SyncService {
	return &SyncService{provider: provider, logger: logger.Named("calendar_sync")}
}

// Reconcile compares the stored sync state against the desired one and
// issues the minimal corrective remote call. It never returns an error:
// failures are reported inside the outcome so the caller can log and
// carry on with the local mutation.
func (service *SyncService) Reconcile(ctx context.Context, user *models.User, old SyncState, task *models.Task) SyncOutcome {
	desired := SyncState{SyncEnabled: task.SyncWithGoogleCalendar, RemoteEventID: old.RemoteEventID}

	switch {
	case desired.SyncEnabled && !user.GoogleConnected():
		return SyncOutcome{Status: SyncSkipped, EventID: old.RemoteEventID}

	case desired.SyncEnabled && old.RemoteEventID == nil:
		return service.createRemote(ctx, user, task)

	case desired.SyncEnabled && old.RemoteEventID != nil:
		return service.updateRemote(ctx, user, *old.RemoteEventID, task)

	case !desired.SyncEnabled && old.RemoteEventID != nil:
		return service.deleteRemote(ctx, user, *old.RemoteEventID)
	}

	return SyncOutcome{Status: SyncSkipped}
}

// DeleteRemote removes the remote counterpart before a local task
// deletion. Best-effort: the local delete proceeds whatever happens.
func (service *SyncService) DeleteRemote(ctx context.Context, user *models.User, eventID string) SyncOutcome {
	if !user.GoogleConnected() {
		return SyncOutcome{Status: SyncSkipped}
	}
	return service.deleteRemote(ctx, user, eventID)
}

func (service *SyncService) createRemote(ctx context.Context, user *models.User, task *models.Task) SyncOutcome {
	created, err := service.provider.CreateEvent(ctx, user.GoogleRefreshToken, BuildTaskEvent(task, time.Now().UTC()))
	if err != nil {
		service.logger.Warn("remote event create failed",
			zap.Uint("task_id", task.ID),
			zap.Error(err),
		)
		return SyncOutcome{Status: SyncFailed, Err: err}
	}
	return SyncOutcome{Status: SyncCreated, EventID: &created.Id}
}

func (service *SyncService) updateRemote(ctx context.Context, user *models.User, eventID string, task *models.Task) SyncOutcome {
	_, err := service.provider.UpdateEvent(ctx, user.GoogleRefreshToken, eventID, BuildTaskEvent(task, time.Now().UTC()))
	if err != nil {
		if service.provider.IsNotFound(err) {
			// Already gone remotely; keep the local mutation, drop the id.
			service.logger.Info("remote event vanished during update",
				zap.Uint("task_id", task.ID),
				zap.String("event_id", eventID),
			)
			return SyncOutcome{Status: SyncFailed, Err: fmt.Errorf("remote event %s not found: %w", eventID, err)}
		}
		service.logger.Warn("remote event update failed",
			zap.Uint("task_id", task.ID),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return SyncOutcome{Status: SyncFailed, EventID: &eventID, Err: err}
	}
	return SyncOutcome{Status: SyncUpdated, EventID: &eventID}
}

func (service *SyncService) deleteRemote(ctx context.Context, user *models.User, eventID string) SyncOutcome {
	err := service.provider.DeleteEvent(ctx, user.GoogleRefreshToken, eventID)
	if err != nil && !service.provider.IsNotFound(err) {
		service.logger.Warn("remote event delete failed",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		// The stored id is cleared regardless; sync intent is off.
		return SyncOutcome{Status: SyncFailed, Err: err}
	}
	return SyncOutcome{Status: SyncDeleted}
}

// EventFields is the provider-independent shape both Tasks and local
// CalendarEvents reduce to before hitting the remote calendar.
type EventFields struct {
	Title             string
	Description       string
	Location          string
	Date              string // "YYYY-MM-DD", empty when undated
	TimeOfDay         string // "HH:MM", empty for all-day
	Recurrence        string
	RecurrenceEndDate string // "YYYY-MM-DD"
}

// BuildTaskEvent maps a task to its remote event body. today anchors the
// all-day fallback for undated tasks.
func BuildTaskEvent(task *models.Task, today time.Time) *calendar.Event {
	fields := EventFields{
		Title:       task.Title,
		Description: task.Description,
		Location:    task.Location,
		TimeOfDay:   task.TimeOfDay,
	}
	if task.Date != nil {
		fields.Date = task.Date.Format("2006-01-02")
	}
	return BuildEvent(fields, today)
}

// BuildCalendarEvent maps a local calendar event to its remote body.
func BuildCalendarEvent(event *models.CalendarEvent, today time.Time) *calendar.Event {
	return BuildEvent(EventFields{
		Title:             event.Title,
		Description:       event.Description,
		Location:          event.Location,
		Date:              event.Date,
		TimeOfDay:         event.TimeOfDay,
		Recurrence:        event.Recurrence,
		RecurrenceEndDate: event.RecurrenceEndDate,
	}, today)
}

// BuildEvent constructs the remote event body. Timed entries become a
// one-hour UTC-labeled interval; date-only entries become a half-open
// all-day interval; no date at all means all-day today. A malformed
// time string falls back to the all-day encoding.
func BuildEvent(fields EventFields, today time.Time) *calendar.Event {
	event := &calendar.Event{
		Summary:     fields.Title,
		Description: fields.Description,
	}
	if fields.Location != "" {
		event.Location = fields.Location
	}
	if rule := recurrenceRule(fields.Recurrence, fields.RecurrenceEndDate); rule != "" {
		event.Recurrence = []string{rule}
	}

	date := fields.Date
	if date == "" {
		date = today.Format("2006-01-02")
	}

	if start, ok := parseDateTime(date, fields.TimeOfDay); ok {
		end := start.Add(time.Hour)
		event.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"}
		event.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"}
		return event
	}

	endDate := nextDay(date, today)
	event.Start = &calendar.EventDateTime{Date: date}
	event.End = &calendar.EventDateTime{Date: endDate}
	return event
}

func parseDateTime(date string, timeOfDay string) (time.Time, bool) {
	if timeOfDay == "" {
		return time.Time{}, false
	}
	start, err := time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
	if err != nil {
		return time.Time{}, false
	}
	return start.UTC(), true
}

func nextDay(date string, today time.Time) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		day = dateOnly(today)
	}
	return day.AddDate(0, 0, 1).Format("2006-01-02")
}

func recurrenceRule(recurrence string, endDate string) string {
	var freq string
	switch recurrence {
	case models.RecurrenceDaily:
		freq = "DAILY"
	case models.RecurrenceWeekly:
		freq = "WEEKLY"
	case models.RecurrenceMonthly:
		freq = "MONTHLY"
	case models.RecurrenceYearly:
		freq = "YEARLY"
	default:
		return ""
	}

	rule := "RRULE:FREQ=" + freq
	if endDate != "" {
		if until, err := time.Parse("2006-01-02", endDate); err == nil {
			rule += ";UNTIL=" + strings.ReplaceAll(until.Format("2006-01-02"), "-", "") + "T235959Z"
		}
	}
	return rule
}
