package usecase

import (
	"context"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// Начальный вид карты: центр Милана
var milanCenter = domain.Coordinates{Latitude: 45.4642, Longitude: 9.1900}

const defaultZoom = 13

// MapUseCase - настройки виджета карты и пешеходные линии маршрутов
type MapUseCase struct {
	geo         repository.GeoRepository
	fetch       *FetchUseCase
	styleURL    string
	accessToken string
	logger      *zap.Logger
}

func NewMapUseCase(
	geo repository.GeoRepository,
	fetch *FetchUseCase,
	styleURL, accessToken string,
	logger *zap.Logger,
) *MapUseCase {
	return &MapUseCase{
		geo:         geo,
		fetch:       fetch,
		styleURL:    styleURL,
		accessToken: accessToken,
		logger:      logger,
	}
}

func (uc *MapUseCase) MapConfig() dto.MapConfigResponse {
	return dto.MapConfigResponse{
		StyleURL:    uc.styleURL,
		AccessToken: uc.accessToken,
		Center:      milanCenter,
		Zoom:        defaultZoom,
	}
}

// ItineraryRoute строит пешеходную линию через опорные точки остановок.
// Остановки без загруженного POI пропускаются; после лимита точек
// оставшиеся остановки тоже попадают в SkippedPOIIDs.
func (uc *MapUseCase) ItineraryRoute(ctx context.Context, store *Store, itineraryID string) (*dto.RouteResponse, error) {
	catalog, err := loadedCatalog(ctx, uc.fetch, store)
	if err != nil {
		return nil, err
	}
	it, ok := catalog.FindItinerary(itineraryID)
	if !ok {
		return nil, errors.NotFound("Itinerario", itineraryID)
	}

	resp := &dto.RouteResponse{ItineraryID: itineraryID}
	waypoints := make([]domain.Coordinates, 0, len(it.POIIDs))
	for _, id := range it.POIIDs {
		poi, ok := catalog.FindPOI(id)
		if !ok || len(waypoints) == domain.MaxRouteWaypoints {
			resp.SkippedPOIIDs = append(resp.SkippedPOIIDs, id)
			continue
		}
		anchor, ok := domain.Anchor(poi.Geometry)
		if !ok {
			resp.SkippedPOIIDs = append(resp.SkippedPOIIDs, id)
			continue
		}
		waypoints = append(waypoints, anchor)
	}

	// Одной точке линия не нужна
	if len(waypoints) < 2 {
		resp.Route = &domain.Route{Line: waypoints}
		return resp, nil
	}

	route, err := uc.geo.WalkingRoute(ctx, waypoints)
	if err != nil {
		uc.logger.Error("Walking route failed",
			zap.String("itinerary_id", itineraryID),
			zap.Int("waypoints", len(waypoints)),
			zap.Error(err))
		return nil, errors.ErrRouteUnavailable.Wrap(err)
	}
	resp.Route = route
	return resp, nil
}
