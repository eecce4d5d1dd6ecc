package usecase

import (
	"context"
	"strings"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// CharacterUseCase - создание, обновление и удаление персонажей
type CharacterUseCase struct {
	mutationSupport
	writer repository.ContentWriter
	photos *PhotoPipeline
}

func NewCharacterUseCase(
	writer repository.ContentWriter,
	photos *PhotoPipeline,
	fetch *FetchUseCase,
	publisher repository.EventPublisher,
	logger *zap.Logger,
) *CharacterUseCase {
	return &CharacterUseCase{
		mutationSupport: mutationSupport{fetch: fetch, publisher: publisher, logger: logger},
		writer:          writer,
		photos:          photos,
	}
}

func (uc *CharacterUseCase) Create(ctx context.Context, store *Store, d dto.CharacterDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	if err := validateCharacterDraft(d); err != nil {
		return nil, uc.invalid(store, err)
	}

	rec := characterRecord(d)
	rec.AuthorID = userID

	id, err := uc.writer.InsertCharacter(ctx, rec)
	if err != nil {
		return nil, uc.fail(store, "Impossibile creare il personaggio", err)
	}

	records, err := uc.photos.Prepare(ctx, domain.PhotoOwnerCharacter, userID, d.NewPhotos)
	if err != nil {
		return nil, uc.fail(store, "Impossibile caricare le foto del personaggio", err)
	}
	if err := uc.photos.Insert(ctx, domain.PhotoOwnerCharacter, id, records); err != nil {
		return nil, uc.fail(store, "Impossibile salvare le foto del personaggio", err)
	}

	refetched := uc.succeed(ctx, store, "Personaggio creato",
		domain.NewCatalogEvent(domain.EntityCharacter, domain.ActionCreated, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

func (uc *CharacterUseCase) Update(ctx context.Context, store *Store, id string, d dto.CharacterDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}
	if !catalog.HasCharacter(id) {
		return nil, uc.fail(store, "Impossibile aggiornare il personaggio", errors.NotFound("Personaggio", id))
	}
	if err := validateCharacterDraft(d); err != nil {
		return nil, uc.invalid(store, err)
	}

	if err := uc.writer.UpdateCharacter(ctx, id, characterRecord(d)); err != nil {
		return nil, uc.fail(store, "Impossibile aggiornare il personaggio", err)
	}

	records, err := uc.photos.Prepare(ctx, domain.PhotoOwnerCharacter, userID, d.NewPhotos)
	if err != nil {
		return nil, uc.fail(store, "Impossibile caricare le foto del personaggio", err)
	}
	if err := uc.photos.Insert(ctx, domain.PhotoOwnerCharacter, id, records); err != nil {
		return nil, uc.fail(store, "Impossibile salvare le foto del personaggio", err)
	}
	if err := uc.photos.Remove(ctx, domain.PhotoOwnerCharacter, id, d.RemovedPhotoIDs); err != nil {
		return nil, uc.fail(store, "Impossibile rimuovere le foto", err)
	}
	if err := uc.photos.ApplyEdits(ctx, domain.PhotoOwnerCharacter, id, userID, d.ExistingPhotos); err != nil {
		return nil, uc.fail(store, "Impossibile aggiornare le foto", err)
	}

	refetched := uc.succeed(ctx, store, "Personaggio aggiornato",
		domain.NewCatalogEvent(domain.EntityCharacter, domain.ActionUpdated, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

func (uc *CharacterUseCase) Delete(ctx context.Context, store *Store, id string) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}

	urls, err := uc.photos.StoredURLs(ctx, domain.PhotoOwnerCharacter, id)
	if err != nil {
		return nil, uc.fail(store, "Impossibile eliminare il personaggio", err)
	}
	if err := uc.writer.DeleteCharacter(ctx, id); err != nil {
		return nil, uc.fail(store, "Impossibile eliminare il personaggio", err)
	}
	uc.photos.RemoveBlobs(ctx, urls)

	refetched := uc.succeed(ctx, store, "Personaggio eliminato",
		domain.NewCatalogEvent(domain.EntityCharacter, domain.ActionDeleted, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

func characterRecord(d dto.CharacterDraft) domain.CharacterRecord {
	return domain.CharacterRecord{
		Name:         strings.TrimSpace(d.Name),
		Description:  strings.TrimSpace(d.Description),
		WikipediaURL: strings.TrimSpace(d.WikipediaURL),
	}
}
