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

func newCharacterUseCase(t *testing.T, userID string) (*usecase.CharacterUseCase, *usecase.Store, *MockContentRepository, *MockEventPublisher) {
	t.Helper()
	repo := &MockContentRepository{}
	publisher := &MockEventPublisher{}
	expectCatalog(repo, sampleRaw())
	store, fetch := loadedStore(t, repo, userID)

	photos := usecase.NewPhotoPipeline(&MockBlobStorage{}, repo, media.NewProcessor(1920, 82, 20), zap.NewNop())
	return usecase.NewCharacterUseCase(repo, photos, fetch, publisher, zap.NewNop()), store, repo, publisher
}

func TestCharacterUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("name and photo source are validated together", func(t *testing.T) {
		uc, store, repo, _ := newCharacterUseCase(t, "user-1")
		draft := dto.CharacterDraft{
			Name:         "  ",
			WikipediaURL: "not a url",
			PhotoChanges: dto.PhotoChanges{NewPhotos: []dto.PhotoUpload{{Caption: "senza file"}}},
		}

		_, err := uc.Create(ctx, store, draft)

		v := violationsOf(t, err)
		assert.Len(t, v, 3)
		assert.Contains(t, v, usecase.MsgNameRequired)
		assert.Contains(t, v, usecase.MsgPhotoSource)
		repo.AssertNotCalled(t, "InsertCharacter", mock.Anything, mock.Anything)
	})

	t.Run("row then photos then refetch", func(t *testing.T) {
		uc, store, repo, publisher := newCharacterUseCase(t, "user-2")
		draft := dto.CharacterDraft{
			Name:         " Alessandro Manzoni ",
			WikipediaURL: "https://it.wikipedia.org/wiki/Alessandro_Manzoni",
			PhotoChanges: dto.PhotoChanges{NewPhotos: []dto.PhotoUpload{{URL: "https://example.org/manzoni.jpg"}}},
		}

		repo.On("InsertCharacter", mock.Anything, domain.CharacterRecord{
			Name:         "Alessandro Manzoni",
			WikipediaURL: "https://it.wikipedia.org/wiki/Alessandro_Manzoni",
			AuthorID:     "user-2",
		}).Return("c2", nil)
		repo.On("InsertPhotos", mock.Anything, domain.PhotoOwnerCharacter, "c2", mock.Anything).Return(nil)
		publisher.On("PublishCatalogEvent", mock.Anything, mock.MatchedBy(func(e domain.CatalogEvent) bool {
			return e.Kind == domain.EntityCharacter && e.AuthorID == "user-2" && !e.InvalidatesNarration()
		})).Return(nil)

		result, err := uc.Create(ctx, store, draft)
		require.NoError(t, err)
		assert.Equal(t, "c2", result.ID)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("photo row failure is reported", func(t *testing.T) {
		uc, store, repo, _ := newCharacterUseCase(t, "user-2")
		draft := dto.CharacterDraft{
			Name:         "Cesare Beccaria",
			PhotoChanges: dto.PhotoChanges{NewPhotos: []dto.PhotoUpload{{URL: "https://example.org/b.jpg"}}},
		}

		repo.On("InsertCharacter", mock.Anything, mock.Anything).Return("c3", nil)
		repo.On("InsertPhotos", mock.Anything, domain.PhotoOwnerCharacter, "c3", mock.Anything).
			Return(stderrors.New("permission denied for table character_photos"))

		_, err := uc.Create(ctx, store, draft)

		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeMutationFailed, appErr.Code)
		assert.Contains(t, store.Notifications()[0].Message, "character_photos")
	})
}

func TestCharacterUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown character is not found", func(t *testing.T) {
		uc, store, repo, _ := newCharacterUseCase(t, "user-1")

		_, err := uc.Update(ctx, store, "c9", dto.CharacterDraft{Name: "Nessuno"})

		assert.ErrorIs(t, err, errors.ErrNotFound)
		repo.AssertNotCalled(t, "UpdateCharacter", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("edit of a photo owned elsewhere fails", func(t *testing.T) {
		uc, store, repo, _ := newCharacterUseCase(t, "user-1")
		draft := dto.CharacterDraft{
			Name: "Carlo Cattaneo",
			PhotoChanges: dto.PhotoChanges{
				ExistingPhotos: []dto.PhotoEdit{{ID: "foreign", Caption: "x"}},
			},
		}

		repo.On("UpdateCharacter", mock.Anything, "c1", mock.Anything).Return(nil)
		repo.On("ListPhotos", mock.Anything, domain.PhotoOwnerCharacter, "c1").Return([]domain.PhotoRecord{}, nil)

		_, err := uc.Update(ctx, store, "c1", draft)

		assert.ErrorIs(t, err, errors.ErrNotFound)
		repo.AssertNotCalled(t, "UpdatePhotos", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCharacterUseCase_Delete(t *testing.T) {
	uc, store, repo, publisher := newCharacterUseCase(t, "user-1")

	repo.On("ListPhotos", mock.Anything, domain.PhotoOwnerCharacter, "c1").Return([]domain.PhotoRecord{}, nil)
	repo.On("DeleteCharacter", mock.Anything, "c1").Return(stderrors.New("row-level security"))

	_, err := uc.Delete(context.Background(), store, "c1")

	require.Error(t, err)
	publisher.AssertNotCalled(t, "PublishCatalogEvent", mock.Anything, mock.Anything)
	repo.AssertNumberOfCalls(t, "ListCharacters", 1)
}
