package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/milan-history-map/internal/config"
	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"go.uber.org/zap"
)

// ErrNoPlace - геокодер не нашёл ни одного места для точки
var ErrNoPlace = errors.New("no place found for coordinates")

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	profile     string
	language    string
	logger      *zap.Logger
}

// NewMapboxClient создает новый клиент для Mapbox API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.GeoRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		profile:     cfg.WalkingProfile,
		language:    cfg.Language,
		logger:      logger,
	}
}

type geocodingResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Text      string `json:"text"`
	} `json:"features"`
}

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// ReverseGeocode возвращает название ближайшего адреса или места
func (c *client) ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error) {
	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("language", c.language)
	q.Set("types", "address,poi,neighborhood,place")
	q.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%f,%f.json?%s",
		c.baseURL, at.Longitude, at.Latitude, q.Encode())

	var resp geocodingResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}

	if len(resp.Features) == 0 {
		return "", ErrNoPlace
	}
	if name := resp.Features[0].PlaceName; name != "" {
		return name, nil
	}
	return resp.Features[0].Text, nil
}

// WalkingRoute возвращает пешеходную линию через точки в заданном порядке
func (c *client) WalkingRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least 2 waypoints, got %d", len(waypoints))
	}

	// Проверка лимита Mapbox (25 точек максимум)
	if len(waypoints) > domain.MaxRouteWaypoints {
		return nil, fmt.Errorf("waypoints exceed Mapbox limit of %d points", domain.MaxRouteWaypoints)
	}

	coordinates := make([]string, len(waypoints))
	for i, w := range waypoints {
		coordinates[i] = fmt.Sprintf("%f,%f", w.Longitude, w.Latitude)
	}

	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("geometries", "geojson")
	q.Set("overview", "full")

	endpoint := fmt.Sprintf("%s/directions/v5/%s/%s?%s",
		c.baseURL, c.profile, strings.Join(coordinates, ";"), q.Encode())

	var resp directionsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.Code != "Ok" {
		c.logger.Error("Mapbox API returned non-OK code",
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return nil, fmt.Errorf("mapbox API returned code: %s", resp.Code)
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("mapbox API returned no routes")
	}

	r := resp.Routes[0]
	line := make([]domain.Coordinates, 0, len(r.Geometry.Coordinates))
	for _, pair := range r.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		line = append(line, domain.Coordinates{Latitude: pair[1], Longitude: pair[0]})
	}

	c.logger.Debug("Mapbox Directions API call successful",
		zap.Int("waypoints", len(waypoints)),
		zap.Float64("distance", r.Distance))

	return &domain.Route{
		Line:            line,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}, nil
}

func (c *client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
