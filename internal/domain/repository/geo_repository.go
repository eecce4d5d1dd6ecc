package repository

import (
	"context"

	"github.com/milan-history-map/internal/domain"
)

// GeoRepository определяет методы для работы с Mapbox API
type GeoRepository interface {
	// ReverseGeocode возвращает текстовое название места для координат
	ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error)

	// WalkingRoute возвращает пешеходную линию маршрута через точки по порядку
	WalkingRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error)
}
