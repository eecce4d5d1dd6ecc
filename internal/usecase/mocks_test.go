package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/usecase"
)

// MockContentRepository is a mock of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockContentRepository) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockContentRepository) ListCharacters(ctx context.Context) ([]domain.CharacterRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CharacterRow), args.Error(1)
}

func (m *MockContentRepository) ListProfiles(ctx context.Context) ([]domain.ProfileRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProfileRow), args.Error(1)
}

func (m *MockContentRepository) ListPOIs(ctx context.Context) ([]domain.POIRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.POIRow), args.Error(1)
}

func (m *MockContentRepository) ListItineraries(ctx context.Context) ([]domain.ItineraryRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItineraryRow), args.Error(1)
}

func (m *MockContentRepository) ListFavoriteIDs(ctx context.Context, target domain.FavoriteTarget, userID string) ([]string, error) {
	args := m.Called(ctx, target, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentRepository) InsertFavorite(ctx context.Context, target domain.FavoriteTarget, userID, targetID string) error {
	return m.Called(ctx, target, userID, targetID).Error(0)
}

func (m *MockContentRepository) DeleteFavorite(ctx context.Context, target domain.FavoriteTarget, userID, targetID string) error {
	return m.Called(ctx, target, userID, targetID).Error(0)
}

func (m *MockContentRepository) InsertCategory(ctx context.Context, c domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContentRepository) InsertPeriod(ctx context.Context, p domain.Period) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockContentRepository) InsertPOI(ctx context.Context, rec domain.POIRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockContentRepository) UpdatePOI(ctx context.Context, id string, rec domain.POIRecord) error {
	return m.Called(ctx, id, rec).Error(0)
}

func (m *MockContentRepository) DeletePOI(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContentRepository) ReplacePOICategories(ctx context.Context, poiID string, categoryIDs []string) error {
	return m.Called(ctx, poiID, categoryIDs).Error(0)
}

func (m *MockContentRepository) ReplacePOICharacters(ctx context.Context, poiID string, characterIDs []string) error {
	return m.Called(ctx, poiID, characterIDs).Error(0)
}

func (m *MockContentRepository) InsertCharacter(ctx context.Context, rec domain.CharacterRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockContentRepository) UpdateCharacter(ctx context.Context, id string, rec domain.CharacterRecord) error {
	return m.Called(ctx, id, rec).Error(0)
}

func (m *MockContentRepository) DeleteCharacter(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContentRepository) InsertItinerary(ctx context.Context, rec domain.ItineraryRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockContentRepository) UpdateItinerary(ctx context.Context, id string, rec domain.ItineraryRecord) error {
	return m.Called(ctx, id, rec).Error(0)
}

func (m *MockContentRepository) DeleteItinerary(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContentRepository) ReplaceItineraryStops(ctx context.Context, itineraryID string, poiIDs []string) error {
	return m.Called(ctx, itineraryID, poiIDs).Error(0)
}

func (m *MockContentRepository) InsertPhotos(ctx context.Context, owner domain.PhotoOwner, ownerID string, photos []domain.PhotoRecord) error {
	return m.Called(ctx, owner, ownerID, photos).Error(0)
}

func (m *MockContentRepository) UpdatePhotos(ctx context.Context, owner domain.PhotoOwner, photos []domain.PhotoRecord) error {
	return m.Called(ctx, owner, photos).Error(0)
}

func (m *MockContentRepository) DeletePhotos(ctx context.Context, owner domain.PhotoOwner, ids []string) error {
	return m.Called(ctx, owner, ids).Error(0)
}

func (m *MockContentRepository) ListPhotos(ctx context.Context, owner domain.PhotoOwner, ownerID string) ([]domain.PhotoRecord, error) {
	args := m.Called(ctx, owner, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhotoRecord), args.Error(1)
}

func (m *MockContentRepository) InsertProfile(ctx context.Context, p domain.ProfileRow) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockContentRepository) GetProfile(ctx context.Context, id string) (*domain.ProfileRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileRow), args.Error(1)
}

// MockBlobStorage is a mock of BlobStorage
type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	return m.Called(ctx, path, data, contentType).Error(0)
}

func (m *MockBlobStorage) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

func (m *MockBlobStorage) PathFromURL(url string) (string, bool) {
	const prefix = "https://cdn.test/"
	if len(url) > len(prefix) && url[:len(prefix)] == prefix {
		return url[len(prefix):], true
	}
	return "", false
}

func (m *MockBlobStorage) Remove(ctx context.Context, paths []string) error {
	return m.Called(ctx, paths).Error(0)
}

// MockGeoRepository is a mock of GeoRepository
type MockGeoRepository struct {
	mock.Mock
}

func (m *MockGeoRepository) ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

func (m *MockGeoRepository) WalkingRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error) {
	args := m.Called(ctx, waypoints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

// MockTextGenerator is a mock of TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockNarrationCache is a mock of NarrationCache
type MockNarrationCache struct {
	mock.Mock
}

func (m *MockNarrationCache) GetNarration(ctx context.Context, poiID string) (string, bool, error) {
	args := m.Called(ctx, poiID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockNarrationCache) SetNarration(ctx context.Context, poiID, text string) error {
	return m.Called(ctx, poiID, text).Error(0)
}

func (m *MockNarrationCache) DeleteNarration(ctx context.Context, poiID string) error {
	return m.Called(ctx, poiID).Error(0)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCatalogEvent(ctx context.Context, event domain.CatalogEvent) error {
	return m.Called(ctx, event).Error(0)
}

func ptrString(s string) *string {
	return &s
}

func ptrFloat64(f float64) *float64 {
	return &f
}

// sampleRaw - небольшой каталог: две категории, два периода, персонаж,
// два POI и маршрут через оба
func sampleRaw() domain.RawCatalog {
	giulia := ptrString("user-1")
	return domain.RawCatalog{
		Categories: []domain.Category{
			{ID: "battaglie", Name: "Battaglie"},
			{ID: "monumenti", Name: "Monumenti"},
		},
		Periods: []domain.Period{
			{ID: "risorgimento", Name: "Risorgimento", StartYear: 1815, EndYear: 1871},
			{ID: "rinascimento", Name: "Rinascimento", StartYear: 1400, EndYear: 1600},
		},
		Characters: []domain.CharacterRow{
			{ID: "c1", Name: "Carlo Cattaneo", AuthorID: giulia},
		},
		Profiles: []domain.ProfileRow{
			{ID: "user-1", Name: "Giulia"},
			{ID: "user-2", Name: "Marco"},
		},
		POIs: []domain.POIRow{
			{
				ID:          "p1",
				Type:        domain.GeometryPoint,
				Coordinates: &domain.Coordinates{Latitude: 45.4668, Longitude: 9.1905},
				PeriodID:    "risorgimento",
				Title:       "Cinque Giornate",
				Location:    "Piazza del Duomo, Milano",
				EventDate:   "18 marzo 1848",
				AuthorID:    giulia,
				Author:      &domain.AuthorRef{Name: "Giulia"},
				POICategories: []domain.CategoryJoinRow{
					{Category: &domain.IDRef{ID: "battaglie"}},
				},
				POICharacters: []domain.CharacterJoinRow{
					{Character: &domain.IDRef{ID: "c1"}},
				},
				Favorites: []domain.CountAggregate{{Count: 3}},
			},
			{
				ID:   "p2",
				Type: domain.GeometryPath,
				PathCoordinates: []domain.Coordinates{
					{Latitude: 45.4700, Longitude: 9.1800},
					{Latitude: 45.4710, Longitude: 9.1820},
				},
				PeriodID: "rinascimento",
				Title:    "Navigli",
				POICategories: []domain.CategoryJoinRow{
					{Category: &domain.IDRef{ID: "monumenti"}},
				},
			},
		},
		Itineraries: []domain.ItineraryRow{
			{
				ID:    "it1",
				Title: "Milano risorgimentale",
				Stops: []domain.StopJoinRow{
					{Position: 1, POI: &domain.IDRef{ID: "p2"}},
					{Position: 0, POI: &domain.IDRef{ID: "p1"}},
				},
				Favorites: []domain.CountAggregate{{Count: 1}},
			},
		},
	}
}

// expectCatalog настраивает все запросы загрузки на ответ raw
func expectCatalog(repo *MockContentRepository, raw domain.RawCatalog) {
	repo.On("ListCategories", mock.Anything).Return(raw.Categories, nil)
	repo.On("ListPeriods", mock.Anything).Return(raw.Periods, nil)
	repo.On("ListCharacters", mock.Anything).Return(raw.Characters, nil)
	repo.On("ListProfiles", mock.Anything).Return(raw.Profiles, nil)
	repo.On("ListPOIs", mock.Anything).Return(raw.POIs, nil)
	repo.On("ListItineraries", mock.Anything).Return(raw.Itineraries, nil)
	repo.On("ListFavoriteIDs", mock.Anything, domain.FavoritePOI, mock.Anything).Return(raw.FavoritePOIIDs, nil)
	repo.On("ListFavoriteIDs", mock.Anything, domain.FavoriteItinerary, mock.Anything).Return(raw.FavoriteItineraryIDs, nil)
}

// loadedStore - store пользователя с уже загруженным каталогом
func loadedStore(t *testing.T, repo *MockContentRepository, userID string) (*usecase.Store, *usecase.FetchUseCase) {
	t.Helper()
	fetch := usecase.NewFetchUseCase(repo, zap.NewNop())
	store := usecase.NewStore(userID, time.Minute)
	require.NoError(t, fetch.Load(context.Background(), store))
	return store, fetch
}
