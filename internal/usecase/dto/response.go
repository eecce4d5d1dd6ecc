package dto

import (
	"time"

	"github.com/milan-history-map/internal/domain"
)

// MutationResult - итог записи: id сущности и состояние после повторной загрузки
type MutationResult struct {
	ID        string `json:"id"`
	Refetched bool   `json:"refetched"`
}

// NarrationResponse - наррация POI. При ошибке генерации Failed=true,
// а Text содержит сообщение для пользователя.
type NarrationResponse struct {
	POIID  string `json:"poi_id"`
	Text   string `json:"text"`
	HTML   string `json:"html"`
	Cached bool   `json:"cached"`
	Failed bool   `json:"failed"`
}

// MapConfigResponse - настройки виджета карты
type MapConfigResponse struct {
	StyleURL    string             `json:"style_url"`
	AccessToken string             `json:"access_token"`
	Center      domain.Coordinates `json:"center"`
	Zoom        float64            `json:"zoom"`
}

// RouteResponse - пешеходная линия маршрута
type RouteResponse struct {
	ItineraryID string        `json:"itinerary_id"`
	Route       *domain.Route `json:"route"`
	// SkippedPOIIDs - остановки без координат или не загруженные POI
	SkippedPOIIDs []string `json:"skipped_poi_ids,omitempty"`
}

// SessionResponse - выданный токен анонимной сессии
type SessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      domain.Profile `json:"user"`
}
