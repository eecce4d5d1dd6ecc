package usecase_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/usecase"
)

func TestMapUseCase_MapConfig(t *testing.T) {
	uc := usecase.NewMapUseCase(nil, nil, "mapbox://styles/mapbox/light-v11", "pk.test", zap.NewNop())

	cfg := uc.MapConfig()
	assert.Equal(t, "pk.test", cfg.AccessToken)
	assert.Equal(t, "mapbox://styles/mapbox/light-v11", cfg.StyleURL)
	assert.InDelta(t, 45.46, cfg.Center.Latitude, 0.01)
	assert.Equal(t, 13.0, float64(cfg.Zoom))
}

func TestMapUseCase_ItineraryRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("waypoints follow stop order", func(t *testing.T) {
		repo := &MockContentRepository{}
		expectCatalog(repo, sampleRaw())
		store, fetch := loadedStore(t, repo, "")
		geo := &MockGeoRepository{}

		want := []domain.Coordinates{
			{Latitude: 45.4668, Longitude: 9.1905},
			{Latitude: 45.4700, Longitude: 9.1800},
		}
		route := &domain.Route{Line: want, DistanceMeters: 1200, DurationSeconds: 900}
		geo.On("WalkingRoute", mock.Anything, want).Return(route, nil)

		resp, err := usecase.NewMapUseCase(geo, fetch, "", "", zap.NewNop()).ItineraryRoute(ctx, store, "it1")
		require.NoError(t, err)
		assert.Same(t, route, resp.Route)
		assert.Empty(t, resp.SkippedPOIIDs)
	})

	t.Run("single waypoint needs no directions call", func(t *testing.T) {
		repo := &MockContentRepository{}
		raw := sampleRaw()
		raw.POIs = raw.POIs[:1]
		expectCatalog(repo, raw)
		store, fetch := loadedStore(t, repo, "")
		geo := &MockGeoRepository{}

		resp, err := usecase.NewMapUseCase(geo, fetch, "", "", zap.NewNop()).ItineraryRoute(ctx, store, "it1")
		require.NoError(t, err)
		assert.Len(t, resp.Route.Line, 1)
		geo.AssertNotCalled(t, "WalkingRoute", mock.Anything, mock.Anything)
	})

	t.Run("stops beyond the waypoint limit are skipped", func(t *testing.T) {
		repo := &MockContentRepository{}
		raw := sampleRaw()
		raw.Itineraries[0].Stops = nil
		for i := 0; i < domain.MaxRouteWaypoints+2; i++ {
			raw.Itineraries[0].Stops = append(raw.Itineraries[0].Stops,
				domain.StopJoinRow{Position: i, POI: &domain.IDRef{ID: "p1"}})
		}
		expectCatalog(repo, raw)
		store, fetch := loadedStore(t, repo, "")
		geo := &MockGeoRepository{}
		geo.On("WalkingRoute", mock.Anything, mock.MatchedBy(func(w []domain.Coordinates) bool {
			return len(w) == domain.MaxRouteWaypoints
		})).Return(&domain.Route{}, nil)

		resp, err := usecase.NewMapUseCase(geo, fetch, "", "", zap.NewNop()).ItineraryRoute(ctx, store, "it1")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p1"}, resp.SkippedPOIIDs, fmt.Sprint(resp.SkippedPOIIDs))
	})

	t.Run("directions failure", func(t *testing.T) {
		repo := &MockContentRepository{}
		expectCatalog(repo, sampleRaw())
		store, fetch := loadedStore(t, repo, "")
		geo := &MockGeoRepository{}
		geo.On("WalkingRoute", mock.Anything, mock.Anything).Return(nil, stderrors.New("NoRoute"))

		_, err := usecase.NewMapUseCase(geo, fetch, "", "", zap.NewNop()).ItineraryRoute(ctx, store, "it1")
		assert.ErrorIs(t, err, errors.ErrRouteUnavailable)
	})

	t.Run("unknown itinerary", func(t *testing.T) {
		repo := &MockContentRepository{}
		expectCatalog(repo, sampleRaw())
		store, fetch := loadedStore(t, repo, "")

		_, err := usecase.NewMapUseCase(&MockGeoRepository{}, fetch, "", "", zap.NewNop()).ItineraryRoute(ctx, store, "it9")
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}
