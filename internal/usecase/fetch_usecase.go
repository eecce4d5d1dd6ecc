package usecase

import (
	"context"
	"fmt"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchUseCase - загрузка всего каталога параллельными запросами
type FetchUseCase struct {
	reader repository.CatalogReader
	logger *zap.Logger
}

func NewFetchUseCase(reader repository.CatalogReader, logger *zap.Logger) *FetchUseCase {
	return &FetchUseCase{
		reader: reader,
		logger: logger,
	}
}

// Load загружает каталог для сессии store и атомарно фиксирует его.
// Любая ошибка запроса проваливает всю загрузку: прежнее состояние
// сохраняется, ошибка записывается в store. Ответ устаревшей загрузки
// (после неё начата новая) отбрасывается без ошибки.
func (uc *FetchUseCase) Load(ctx context.Context, store *Store) error {
	token := store.BeginFetch()

	raw, err := uc.fetchRaw(ctx, store.UserID())
	if err != nil {
		appErr := errors.FetchFailed(err)
		if store.FailFetch(token, appErr) {
			uc.logger.Error("Catalog fetch failed",
				zap.String("user_id", store.UserID()),
				zap.Error(err))
		}
		return appErr
	}

	catalog, skipped := NormalizeCatalog(raw)
	for _, e := range skipped {
		uc.logger.Warn("Skipping malformed POI", zap.Error(e))
	}

	if !store.CommitFetch(token, catalog) {
		uc.logger.Debug("Discarding stale fetch result",
			zap.String("user_id", store.UserID()),
			zap.Uint64("token", token))
		return nil
	}

	uc.logger.Debug("Catalog loaded",
		zap.String("user_id", store.UserID()),
		zap.Int("pois", len(catalog.POIs)),
		zap.Int("itineraries", len(catalog.Itineraries)),
		zap.Int("characters", len(catalog.Characters)))
	return nil
}

// fetchRaw выполняет все запросы параллельно; каждая горутина пишет своё поле
func (uc *FetchUseCase) fetchRaw(ctx context.Context, userID string) (domain.RawCatalog, error) {
	var raw domain.RawCatalog
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		raw.Categories, err = uc.reader.ListCategories(gctx)
		return wrapQuery("categories", err)
	})
	g.Go(func() (err error) {
		raw.Periods, err = uc.reader.ListPeriods(gctx)
		return wrapQuery("periods", err)
	})
	g.Go(func() (err error) {
		raw.Characters, err = uc.reader.ListCharacters(gctx)
		return wrapQuery("characters", err)
	})
	g.Go(func() (err error) {
		raw.Profiles, err = uc.reader.ListProfiles(gctx)
		return wrapQuery("profiles", err)
	})
	g.Go(func() (err error) {
		raw.POIs, err = uc.reader.ListPOIs(gctx)
		return wrapQuery("pois", err)
	})
	g.Go(func() (err error) {
		raw.Itineraries, err = uc.reader.ListItineraries(gctx)
		return wrapQuery("itineraries", err)
	})

	// Без пользователя множества избранного пустые
	if userID != "" {
		g.Go(func() (err error) {
			raw.FavoritePOIIDs, err = uc.reader.ListFavoriteIDs(gctx, domain.FavoritePOI, userID)
			return wrapQuery("poi_favorites", err)
		})
		g.Go(func() (err error) {
			raw.FavoriteItineraryIDs, err = uc.reader.ListFavoriteIDs(gctx, domain.FavoriteItinerary, userID)
			return wrapQuery("itinerary_favorites", err)
		})
	}

	if err := g.Wait(); err != nil {
		return domain.RawCatalog{}, err
	}
	return raw, nil
}

func wrapQuery(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", name, err)
}
