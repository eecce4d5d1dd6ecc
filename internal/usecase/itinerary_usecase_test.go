package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/media"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
)

func newItineraryUseCase(t *testing.T, userID string) (*usecase.ItineraryUseCase, *usecase.Store, *MockContentRepository, *MockBlobStorage) {
	t.Helper()
	repo := &MockContentRepository{}
	storage := &MockBlobStorage{}
	expectCatalog(repo, sampleRaw())
	store, fetch := loadedStore(t, repo, userID)

	photos := usecase.NewPhotoPipeline(storage, repo, media.NewProcessor(1920, 82, 20), zap.NewNop())
	return usecase.NewItineraryUseCase(repo, photos, fetch, nil, zap.NewNop()), store, repo, storage
}

func TestItineraryUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("cover photo is required", func(t *testing.T) {
		uc, store, repo, _ := newItineraryUseCase(t, "user-1")
		draft := dto.ItineraryDraft{
			Title:  "Tre tappe",
			POIIDs: []string{"p1", "p2", "p1"},
		}

		_, err := uc.Create(ctx, store, draft)

		assert.Equal(t, []string{usecase.MsgCoverPhotoRequired}, violationsOf(t, err))
		repo.AssertNotCalled(t, "InsertItinerary", mock.Anything, mock.Anything)
		require.Len(t, store.Notifications(), 1)
	})

	t.Run("stops must exist", func(t *testing.T) {
		uc, store, _, _ := newItineraryUseCase(t, "user-1")
		draft := dto.ItineraryDraft{
			Title:      "Tappa fantasma",
			POIIDs:     []string{"p9"},
			CoverPhoto: dto.PhotoUpload{URL: "https://example.org/cover.jpg"},
		}

		_, err := uc.Create(ctx, store, draft)
		assert.Equal(t, []string{"Tappa sconosciuta: p9"}, violationsOf(t, err))
	})

	t.Run("full pipeline", func(t *testing.T) {
		uc, store, repo, _ := newItineraryUseCase(t, "user-1")
		draft := dto.ItineraryDraft{
			Title:      "  Passeggiata del 1848 ",
			POIIDs:     []string{"p2", "p1", "p2"},
			CoverPhoto: dto.PhotoUpload{URL: "https://example.org/cover.jpg", Caption: "Copertina"},
		}

		repo.On("InsertItinerary", mock.Anything, domain.ItineraryRecord{
			Title:             "Passeggiata del 1848",
			EstimatedDuration: "1 h 30 min",
			Tags:              []string{},
			AuthorID:          "user-1",
		}).Return("it2", nil)
		repo.On("InsertPhotos", mock.Anything, domain.PhotoOwnerItinerary, "it2", []domain.PhotoRecord{
			{URL: "https://example.org/cover.jpg", Caption: "Copertina"},
		}).Return(nil)
		repo.On("ReplaceItineraryStops", mock.Anything, "it2", []string{"p2", "p1", "p2"}).Return(nil)

		result, err := uc.Create(ctx, store, draft)
		require.NoError(t, err)
		assert.Equal(t, "it2", result.ID)
		assert.True(t, result.Refetched)
		repo.AssertExpectations(t)
	})

	t.Run("stop failure leaves itinerary and cover in place", func(t *testing.T) {
		uc, store, repo, _ := newItineraryUseCase(t, "user-1")
		draft := dto.ItineraryDraft{
			Title:      "Interrotto",
			POIIDs:     []string{"p1"},
			CoverPhoto: dto.PhotoUpload{URL: "https://example.org/cover.jpg"},
		}

		repo.On("InsertItinerary", mock.Anything, mock.Anything).Return("it3", nil)
		repo.On("InsertPhotos", mock.Anything, domain.PhotoOwnerItinerary, "it3", mock.Anything).Return(nil)
		repo.On("ReplaceItineraryStops", mock.Anything, "it3", mock.Anything).Return(stderrors.New("timeout"))

		_, err := uc.Create(ctx, store, draft)

		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeMutationFailed, appErr.Code)
		repo.AssertNumberOfCalls(t, "ListItineraries", 1)
		repo.AssertNotCalled(t, "DeleteItinerary", mock.Anything, mock.Anything)
	})
}

func TestItineraryUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("without a new cover the old one stays", func(t *testing.T) {
		uc, store, repo, _ := newItineraryUseCase(t, "user-1")
		draft := dto.ItineraryDraft{Title: "Milano risorgimentale", POIIDs: []string{"p1"}}

		repo.On("UpdateItinerary", mock.Anything, "it1", mock.MatchedBy(func(rec domain.ItineraryRecord) bool {
			return rec.EstimatedDuration == "30 min" && rec.AuthorID == ""
		})).Return(nil)
		repo.On("ReplaceItineraryStops", mock.Anything, "it1", []string{"p1"}).Return(nil)

		_, err := uc.Update(ctx, store, "it1", draft)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ListPhotos", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "InsertPhotos", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a new cover replaces the previous photos", func(t *testing.T) {
		uc, store, repo, storage := newItineraryUseCase(t, "user-1")
		draft := dto.ItineraryDraft{
			Title:      "Milano risorgimentale",
			POIIDs:     []string{"p1", "p2"},
			CoverPhoto: dto.PhotoUpload{URL: "https://example.org/new.jpg"},
		}
		previous := []domain.PhotoRecord{{ID: "old", URL: "https://cdn.test/itineraries/1_old.jpg"}}

		repo.On("UpdateItinerary", mock.Anything, "it1", mock.Anything).Return(nil)
		repo.On("ListPhotos", mock.Anything, domain.PhotoOwnerItinerary, "it1").Return(previous, nil)
		repo.On("InsertPhotos", mock.Anything, domain.PhotoOwnerItinerary, "it1", mock.Anything).Return(nil)
		repo.On("DeletePhotos", mock.Anything, domain.PhotoOwnerItinerary, []string{"old"}).Return(nil)
		storage.On("Remove", mock.Anything, []string{"itineraries/1_old.jpg"}).Return(nil)
		repo.On("ReplaceItineraryStops", mock.Anything, "it1", []string{"p1", "p2"}).Return(nil)

		_, err := uc.Update(ctx, store, "it1", draft)
		require.NoError(t, err)
		repo.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("unknown itinerary", func(t *testing.T) {
		uc, store, _, _ := newItineraryUseCase(t, "user-1")

		_, err := uc.Update(ctx, store, "missing", dto.ItineraryDraft{Title: "x", POIIDs: []string{"p1"}})
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestItineraryUseCase_Delete(t *testing.T) {
	uc, store, repo, storage := newItineraryUseCase(t, "user-2")

	repo.On("ListPhotos", mock.Anything, domain.PhotoOwnerItinerary, "it1").
		Return([]domain.PhotoRecord{{ID: "cover", URL: "https://cdn.test/itineraries/1_cover.jpg"}}, nil)
	repo.On("DeleteItinerary", mock.Anything, "it1").Return(nil)
	storage.On("Remove", mock.Anything, []string{"itineraries/1_cover.jpg"}).Return(nil)

	result, err := uc.Delete(context.Background(), store, "it1")
	require.NoError(t, err)
	assert.Equal(t, "it1", result.ID)
	storage.AssertExpectations(t)
}
