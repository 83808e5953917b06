package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	primaryCalendarID = "primary"
	apiTimeout        = 10 * time.Second
)

// Client talks to the user's primary Google Calendar. Each call
// exchanges the stored refresh token for a short-lived access token via
// the oauth2 token source; nothing is cached between calls.
type Client struct {
	oauth  *oauth2.Config
	logger *zap.Logger
}

func NewClient(oauthConfig *oauth2.Config, logger *zap.Logger) *Client {
	return &Client{oauth: oauthConfig, logger: logger.Named("gcal")}
}

func (client *Client) service(ctx context.Context, refreshToken string) (*calendar.Service, error) {
	if refreshToken == "" {
		return nil, errors.New("google account not connected")
	}

	tokenSource := client.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	httpClient := oauth2.NewClient(ctx, tokenSource)
	httpClient.Transport = otelhttp.NewTransport(httpClient.Transport)
	httpClient.Timeout = apiTimeout

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}
	return service, nil
}

func (client *Client) CreateEvent(ctx context.Context, refreshToken string, event *calendar.Event) (*calendar.Event, error) {
	service, err := client.service(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	created, err := service.Events.Insert(primaryCalendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert calendar event: %w", err)
	}
	client.logger.Debug("calendar event created", zap.String("event_id", created.Id))
	return created, nil
}

func (client *Client) UpdateEvent(ctx context.Context, refreshToken string, eventID string, event *calendar.Event) (*calendar.Event, error) {
	service, err := client.service(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	updated, err := service.Events.Update(primaryCalendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update calendar event %s: %w", eventID, err)
	}
	return updated, nil
}

func (client *Client) DeleteEvent(ctx context.Context, refreshToken string, eventID string) error {
	service, err := client.service(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := service.Events.Delete(primaryCalendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event %s: %w", eventID, err)
	}
	return nil
}

// ListEvents fetches single events from the primary calendar ordered by
// start time. A zero timeMin/timeMax falls back to the now-1d .. now+7d
// window.
func (client *Client) ListEvents(ctx context.Context, refreshToken string, timeMin string, timeMax string) ([]*calendar.Event, error) {
	service, err := client.service(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if timeMin == "" {
		timeMin = now.AddDate(0, 0, -1).Format(time.RFC3339)
	}
	if timeMax == "" {
		timeMax = now.AddDate(0, 0, 7).Format(time.RFC3339)
	}

	events, err := service.Events.List(primaryCalendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(timeMin).
		TimeMax(timeMax).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events.Items, nil
}

// IsNotFound reports whether the remote said the event no longer
// exists. Google also answers 410 for events deleted out-of-band.
func (client *Client) IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}
