package usecase

import (
	"context"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"go.uber.org/zap"
)

const favoriteFailedMessage = "Impossibile aggiornare i preferiti"

// FavoriteUseCase - оптимистичное переключение избранного:
// apply (локально) -> запись -> при ошибке compensate (снимок целиком)
type FavoriteUseCase struct {
	repo   repository.FavoriteRepository
	fetch  *FetchUseCase
	logger *zap.Logger
}

func NewFavoriteUseCase(repo repository.FavoriteRepository, fetch *FetchUseCase, logger *zap.Logger) *FavoriteUseCase {
	return &FavoriteUseCase{
		repo:   repo,
		fetch:  fetch,
		logger: logger,
	}
}

func (uc *FavoriteUseCase) TogglePOIFavorite(ctx context.Context, store *Store, poiID string) (domain.POI, error) {
	if err := uc.toggle(ctx, store, domain.FavoritePOI, poiID); err != nil {
		return domain.POI{}, err
	}
	catalog, _, _ := store.Catalog()
	poi, _ := catalog.FindPOI(poiID)
	return poi, nil
}

func (uc *FavoriteUseCase) ToggleItineraryFavorite(ctx context.Context, store *Store, itineraryID string) (domain.Itinerary, error) {
	if err := uc.toggle(ctx, store, domain.FavoriteItinerary, itineraryID); err != nil {
		return domain.Itinerary{}, err
	}
	catalog, _, _ := store.Catalog()
	it, _ := catalog.FindItinerary(itineraryID)
	return it, nil
}

func (uc *FavoriteUseCase) toggle(ctx context.Context, store *Store, target domain.FavoriteTarget, id string) error {
	// анонимный store общий для всех посетителей: уведомление не пишется
	userID := store.UserID()
	if userID == "" {
		return errors.ErrUnauthenticated
	}

	if _, err := loadedCatalog(ctx, uc.fetch, store); err != nil {
		return err
	}

	snap, favorited, err := store.FlipFavorite(target, id)
	if err != nil {
		return err
	}

	if favorited {
		err = uc.repo.InsertFavorite(ctx, target, userID, id)
	} else {
		err = uc.repo.DeleteFavorite(ctx, target, userID, id)
	}
	if err == nil {
		return nil
	}

	restored := store.RestoreFavorite(snap)
	appErr := errors.MutationFailed(favoriteFailedMessage, err)
	store.Notify(domain.NotificationError, appErr.Message)

	uc.logger.Error("Favorite write failed",
		zap.String("user_id", userID),
		zap.String("target", string(target)),
		zap.String("target_id", id),
		zap.Bool("restored", restored),
		zap.Error(err))
	return appErr
}
