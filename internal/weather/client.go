package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskleaf/taskleaf/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const apiTimeout = 10 * time.Second

// Client fetches current conditions from OpenWeatherMap. Lookups are a
// secondary enrichment: every failure path returns a nil snapshot and
// the caller's request proceeds without weather.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *zap.Logger
}

func NewClient(apiKey string, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   apiTimeout,
		},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("weather"),
	}
}

type currentConditionsResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Lookup resolves a free-text place name or a "lat,lon" pair (a comma
// marks coordinates) to a weather snapshot. Returns nil, never an
// error, on any failure.
func (client *Client) Lookup(ctx context.Context, location string) *models.WeatherSnapshot {
	if client.apiKey == "" {
		client.logger.Debug("weather lookup skipped, no api key configured")
		return nil
	}

	params := url.Values{}
	params.Set("appid", client.apiKey)
	params.Set("units", "metric")
	if lat, lon, ok := splitCoordinates(location); ok {
		params.Set("lat", lat)
		params.Set("lon", lon)
	} else {
		params.Set("q", location)
	}

	reqCtx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	endpoint := client.baseURL + "/weather?" + params.Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		client.logger.Warn("weather request build failed", zap.Error(err))
		return nil
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		client.logger.Warn("weather request failed", zap.String("location", location), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		client.logger.Warn("weather response read failed", zap.Error(err))
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		client.logger.Warn("weather api returned non-OK status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("location", location),
		)
		return nil
	}

	var conditions currentConditionsResponse
	if err := json.Unmarshal(body, &conditions); err != nil {
		client.logger.Warn("weather response unmarshal failed", zap.Error(err))
		return nil
	}
	if len(conditions.Weather) == 0 {
		client.logger.Warn("weather response missing conditions", zap.String("location", location))
		return nil
	}

	snapshot := &models.WeatherSnapshot{
		Temperature: conditions.Main.Temp,
		FeelsLike:   conditions.Main.FeelsLike,
		Description: conditions.Weather[0].Description,
		Icon:        conditions.Weather[0].Icon,
		Humidity:    conditions.Main.Humidity,
		WindSpeed:   conditions.Wind.Speed,
		Location:    conditions.Name,
	}
	client.logger.Debug("weather fetched",
		zap.String("location", snapshot.Location),
		zap.Float64("temperature", snapshot.Temperature),
	)
	return snapshot
}

func splitCoordinates(location string) (lat string, lon string, ok bool) {
	if !strings.Contains(location, ",") {
		return "", "", false
	}
	parts := strings.SplitN(location, ",", 2)
	lat = strings.TrimSpace(parts[0])
	lon = strings.TrimSpace(parts[1])
	if lat == "" || lon == "" {
		return "", "", false
	}
	return lat, lon, true
}
