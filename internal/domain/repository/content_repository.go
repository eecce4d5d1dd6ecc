package repository

import (
	"context"

	"github.com/milan-history-map/internal/domain"
)

// CatalogReader - запросы чтения, из которых собирается снимок каталога.
// Каждый метод атомарен сам по себе; между вызовами согласованность не гарантируется.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListPeriods(ctx context.Context) ([]domain.Period, error)
	ListCharacters(ctx context.Context) ([]domain.CharacterRow, error)
	ListProfiles(ctx context.Context) ([]domain.ProfileRow, error)
	ListPOIs(ctx context.Context) ([]domain.POIRow, error)
	ListItineraries(ctx context.Context) ([]domain.ItineraryRow, error)

	// ListFavoriteIDs returns the ids of targets the user has favorited.
	ListFavoriteIDs(ctx context.Context, target domain.FavoriteTarget, userID string) ([]string, error)
}

// FavoriteRepository - строки избранного (user, target)
type FavoriteRepository interface {
	InsertFavorite(ctx context.Context, target domain.FavoriteTarget, userID, targetID string) error
	DeleteFavorite(ctx context.Context, target domain.FavoriteTarget, userID, targetID string) error
}

// ContentWriter - запись родительских строк, фотографий и join-таблиц
type ContentWriter interface {
	InsertCategory(ctx context.Context, c domain.Category) error
	InsertPeriod(ctx context.Context, p domain.Period) error

	InsertPOI(ctx context.Context, rec domain.POIRecord) (string, error)
	UpdatePOI(ctx context.Context, id string, rec domain.POIRecord) error
	DeletePOI(ctx context.Context, id string) error
	// ReplacePOICategories deletes every join row of the POI, then inserts ids.
	ReplacePOICategories(ctx context.Context, poiID string, categoryIDs []string) error
	// ReplacePOICharacters deletes every join row of the POI, then inserts ids.
	ReplacePOICharacters(ctx context.Context, poiID string, characterIDs []string) error

	InsertCharacter(ctx context.Context, rec domain.CharacterRecord) (string, error)
	UpdateCharacter(ctx context.Context, id string, rec domain.CharacterRecord) error
	DeleteCharacter(ctx context.Context, id string) error

	InsertItinerary(ctx context.Context, rec domain.ItineraryRecord) (string, error)
	UpdateItinerary(ctx context.Context, id string, rec domain.ItineraryRecord) error
	DeleteItinerary(ctx context.Context, id string) error
	// ReplaceItineraryStops stores poiIDs as ordered stops, replacing old ones.
	ReplaceItineraryStops(ctx context.Context, itineraryID string, poiIDs []string) error

	InsertPhotos(ctx context.Context, owner domain.PhotoOwner, ownerID string, photos []domain.PhotoRecord) error
	UpdatePhotos(ctx context.Context, owner domain.PhotoOwner, photos []domain.PhotoRecord) error
	DeletePhotos(ctx context.Context, owner domain.PhotoOwner, ids []string) error
	ListPhotos(ctx context.Context, owner domain.PhotoOwner, ownerID string) ([]domain.PhotoRecord, error)
}

// ProfileRepository - профили пользователей
type ProfileRepository interface {
	InsertProfile(ctx context.Context, p domain.ProfileRow) error
	GetProfile(ctx context.Context, id string) (*domain.ProfileRow, error)
}

// ContentRepository объединяет все операции реляционного бэкенда
type ContentRepository interface {
	CatalogReader
	FavoriteRepository
	ContentWriter
	ProfileRepository
}
