package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

var errRemoteGone = errors.New("remote: not found")

type fakeProvider struct {
	createCalls int
	updateCalls int
	deleteCalls int

	createErr error
	updateErr error
	deleteErr error

	createdID   string
	lastEventID string
	lastBody    *calendar.Event
}

func (p *fakeProvider) CreateEvent(ctx context.Context, refreshToken string, event *calendar.Event) (*calendar.Event, error) {
	p.createCalls++
	p.lastBody = event
	if p.createErr != nil {
		return nil, p.createErr
	}
	id := p.createdID
	if id == "" {
		id = "evt-1"
	}
	return &calendar.Event{Id: id}, nil
}

func (p *fakeProvider) UpdateEvent(ctx context.Context, refreshToken string, eventID string, event *calendar.Event) (*calendar.Event, error) {
	p.updateCalls++
	p.lastEventID = eventID
	p.lastBody = event
	if p.updateErr != nil {
		return nil, p.updateErr
	}
	return &calendar.Event{Id: eventID}, nil
}

func (p *fakeProvider) DeleteEvent(ctx context.Context, refreshToken string, eventID string) error {
	p.deleteCalls++
	p.lastEventID = eventID
	return p.deleteErr
}

func (p *fakeProvider) IsNotFound(err error) bool {
	return errors.Is(err, errRemoteGone)
}

func connectedUser() *models.User {
	googleID := "g-1"
	return &models.User{Email: "a@b.c", GoogleID: &googleID, GoogleRefreshToken: "refresh"}
}

func syncedTask(sync bool) *models.Task {
	return &models.Task{Title: "task", SyncWithGoogleCalendar: sync}
}

func TestReconcileCreatesOnNewIntent(t *testing.T) {
	provider := &fakeProvider{createdID: "evt-42"}
	service := NewSyncService(provider, zap.NewNop())

	outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{}, syncedTask(true))

	if outcome.Status != SyncCreated {
		t.Fatalf("expected created, got %s", outcome.Status)
	}
	if outcome.EventID == nil || *outcome.EventID != "evt-42" {
		t.Fatalf("expected event id evt-42, got %v", outcome.EventID)
	}
	if provider.createCalls != 1 || provider.updateCalls != 0 || provider.deleteCalls != 0 {
		t.Fatalf("expected exactly one create call, got %+v", provider)
	}
}

func TestReconcileCreateFailureLeavesNoID(t *testing.T) {
	provider := &fakeProvider{createErr: errors.New("quota")}
	service := NewSyncService(provider, zap.NewNop())

	outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{}, syncedTask(true))

	if outcome.Status != SyncFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if outcome.EventID != nil {
		t.Fatalf("failed create must not yield an event id, got %q", *outcome.EventID)
	}
	if outcome.Err == nil {
		t.Fatalf("expected error in outcome")
	}
}

func TestReconcileUpdatesExisting(t *testing.T) {
	provider := &fakeProvider{}
	service := NewSyncService(provider, zap.NewNop())

	existing := "evt-7"
	outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{SyncEnabled: true, RemoteEventID: &existing}, syncedTask(true))

	if outcome.Status != SyncUpdated {
		t.Fatalf("expected updated, got %s", outcome.Status)
	}
	if outcome.EventID == nil || *outcome.EventID != "evt-7" {
		t.Fatalf("expected id kept, got %v", outcome.EventID)
	}
	if provider.updateCalls != 1 || provider.createCalls != 0 {
		t.Fatalf("expected exactly one update call, got %+v", provider)
	}
}

func TestReconcileUpdateDropsVanishedID(t *testing.T) {
	provider := &fakeProvider{updateErr: errRemoteGone}
	service := NewSyncService(provider, zap.NewNop())

	existing := "evt-7"
	outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{SyncEnabled: true, RemoteEventID: &existing}, syncedTask(true))

	if outcome.Status != SyncFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if outcome.EventID != nil {
		t.Fatalf("vanished remote event must drop the id, got %q", *outcome.EventID)
	}
}

func TestReconcileDeleteClearsIDRegardless(t *testing.T) {
	for _, deleteErr := range []error{nil, errRemoteGone, errors.New("network")} {
		provider := &fakeProvider{deleteErr: deleteErr}
		service := NewSyncService(provider, zap.NewNop())

		existing := "evt-9"
		outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{SyncEnabled: true, RemoteEventID: &existing}, syncedTask(false))

		if outcome.EventID != nil {
			t.Fatalf("delete must clear the id (err=%v), got %q", deleteErr, *outcome.EventID)
		}
		if provider.deleteCalls != 1 {
			t.Fatalf("expected exactly one delete call, got %d", provider.deleteCalls)
		}
	}
}

func TestReconcileDeleteAlreadyGoneIsDeleted(t *testing.T) {
	provider := &fakeProvider{deleteErr: errRemoteGone}
	service := NewSyncService(provider, zap.NewNop())

	existing := "evt-9"
	outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{SyncEnabled: true, RemoteEventID: &existing}, syncedTask(false))

	if outcome.Status != SyncDeleted {
		t.Fatalf("already-gone remote delete should count as deleted, got %s", outcome.Status)
	}
}

func TestReconcileSkipsWhenNotConnected(t *testing.T) {
	provider := &fakeProvider{}
	service := NewSyncService(provider, zap.NewNop())

	existing := "evt-3"
	user := &models.User{Email: "a@b.c"}
	outcome := service.Reconcile(context.Background(), user, SyncState{SyncEnabled: true, RemoteEventID: &existing}, syncedTask(true))

	if outcome.Status != SyncSkipped {
		t.Fatalf("expected skipped, got %s", outcome.Status)
	}
	if outcome.EventID == nil || *outcome.EventID != "evt-3" {
		t.Fatalf("skip must preserve the stored id, got %v", outcome.EventID)
	}
	if provider.createCalls+provider.updateCalls+provider.deleteCalls != 0 {
		t.Fatalf("disconnected user must not hit the provider: %+v", provider)
	}
}

func TestReconcileNoIntentNoID(t *testing.T) {
	provider := &fakeProvider{}
	service := NewSyncService(provider, zap.NewNop())

	outcome := service.Reconcile(context.Background(), connectedUser(), SyncState{}, syncedTask(false))

	if outcome.Status != SyncSkipped {
		t.Fatalf("expected skipped, got %s", outcome.Status)
	}
	if provider.createCalls+provider.updateCalls+provider.deleteCalls != 0 {
		t.Fatalf("nothing to reconcile, provider must stay untouched: %+v", provider)
	}
}

func TestBuildEventTimed(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	event := BuildEvent(EventFields{Title: "standup", Date: "2026-03-12", TimeOfDay: "09:30"}, today)

	if event.Start == nil || event.Start.DateTime != "2026-03-12T09:30:00Z" {
		t.Fatalf("unexpected start: %+v", event.Start)
	}
	if event.End == nil || event.End.DateTime != "2026-03-12T10:30:00Z" {
		t.Fatalf("unexpected end: %+v", event.End)
	}
	if event.Start.TimeZone != "UTC" {
		t.Fatalf("expected UTC label, got %s", event.Start.TimeZone)
	}
}

func TestBuildEventTimedMidnightRollover(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	event := BuildEvent(EventFields{Title: "late", Date: "2026-03-12", TimeOfDay: "23:30"}, today)

	if event.End.DateTime != "2026-03-13T00:30:00Z" {
		t.Fatalf("expected rollover into next day, got %s", event.End.DateTime)
	}
}

func TestBuildEventAllDayHalfOpen(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	event := BuildEvent(EventFields{Title: "holiday", Date: "2026-03-12"}, today)

	if event.Start == nil || event.Start.Date != "2026-03-12" {
		t.Fatalf("unexpected start: %+v", event.Start)
	}
	if event.End == nil || event.End.Date != "2026-03-13" {
		t.Fatalf("all-day interval must be half-open, got %+v", event.End)
	}
	if event.Start.DateTime != "" {
		t.Fatalf("all-day event must not carry a DateTime")
	}
}

func TestBuildEventUndatedDefaultsToToday(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	event := BuildEvent(EventFields{Title: "someday"}, today)

	if event.Start.Date != "2026-03-10" || event.End.Date != "2026-03-11" {
		t.Fatalf("expected all-day today, got start=%+v end=%+v", event.Start, event.End)
	}
}

func TestBuildEventMalformedTimeFallsBackToAllDay(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	event := BuildEvent(EventFields{Title: "x", Date: "2026-03-12", TimeOfDay: "25:99"}, today)

	if event.Start.Date != "2026-03-12" || event.Start.DateTime != "" {
		t.Fatalf("malformed time must produce an all-day event, got %+v", event.Start)
	}
}

func TestBuildEventRecurrence(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	event := BuildEvent(EventFields{Title: "gym", Date: "2026-03-12", Recurrence: models.RecurrenceWeekly}, today)
	if len(event.Recurrence) != 1 || event.Recurrence[0] != "RRULE:FREQ=WEEKLY" {
		t.Fatalf("unexpected recurrence: %v", event.Recurrence)
	}

	event = BuildEvent(EventFields{
		Title:             "gym",
		Date:              "2026-03-12",
		Recurrence:        models.RecurrenceDaily,
		RecurrenceEndDate: "2026-04-01",
	}, today)
	if event.Recurrence[0] != "RRULE:FREQ=DAILY;UNTIL=20260401T235959Z" {
		t.Fatalf("unexpected bounded recurrence: %v", event.Recurrence)
	}

	event = BuildEvent(EventFields{Title: "once", Date: "2026-03-12", Recurrence: models.RecurrenceNone}, today)
	if len(event.Recurrence) != 0 {
		t.Fatalf("none recurrence must not emit a rule: %v", event.Recurrence)
	}
}

func TestBuildTaskEvent(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	task := &models.Task{
		Title:       "write report",
		Description: "quarterly numbers",
		Location:    "office",
		Date:        &date,
		TimeOfDay:   "14:00",
	}

	event := BuildTaskEvent(task, today)

	if event.Summary != "write report" || event.Location != "office" {
		t.Fatalf("unexpected event body: %+v", event)
	}
	if event.Start.DateTime != "2026-03-12T14:00:00Z" {
		t.Fatalf("unexpected start: %+v", event.Start)
	}
}
