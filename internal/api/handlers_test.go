package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/config"
	"github.com/taskleaf/taskleaf/internal/db"
	"github.com/taskleaf/taskleaf/internal/gcal"
	"github.com/taskleaf/taskleaf/internal/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type noWeather struct{}

func (noWeather) Lookup(ctx context.Context, location string) *models.WeatherSnapshot {
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	cfg := &config.Config{
		SecretKey:         "test-secret",
		FrontendURL:       "http://localhost:3000",
		Version:           "test",
		GoogleOAuthConfig: &oauth2.Config{},
	}
	calendarClient := gcal.NewClient(cfg.GoogleOAuthConfig, zap.NewNop())
	handler := NewHandler(database, cfg, zap.NewNop(), noWeather{}, calendarClient)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func jsonRequest(t *testing.T, method string, target string, payload any, token string) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return request
}

func decodeBody(t *testing.T, response *http.Response, out any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

// registerTestUser registers through the API and returns the issued
// access token.
func registerTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	request := jsonRequest(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":     email,
		"full_name": "Test User",
		"password":  "password123",
	}, "")

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, response, &result)
	if result.AccessToken == "" {
		t.Fatalf("expected access token in register response")
	}
	return result.AccessToken
}
