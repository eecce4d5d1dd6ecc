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

// ItineraryUseCase - создание, обновление и удаление маршрутов
type ItineraryUseCase struct {
	mutationSupport
	writer repository.ContentWriter
	photos *PhotoPipeline
}

func NewItineraryUseCase(
	writer repository.ContentWriter,
	photos *PhotoPipeline,
	fetch *FetchUseCase,
	publisher repository.EventPublisher,
	logger *zap.Logger,
) *ItineraryUseCase {
	return &ItineraryUseCase{
		mutationSupport: mutationSupport{fetch: fetch, publisher: publisher, logger: logger},
		writer:          writer,
		photos:          photos,
	}
}

// Create - строка маршрута, обложка, остановки по порядку
func (uc *ItineraryUseCase) Create(ctx context.Context, store *Store, d dto.ItineraryDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := validateItineraryDraft(d, &catalog, true); err != nil {
		return nil, uc.invalid(store, err)
	}

	rec := itineraryRecord(d)
	rec.AuthorID = userID

	id, err := uc.writer.InsertItinerary(ctx, rec)
	if err != nil {
		return nil, uc.fail(store, "Impossibile creare l'itinerario", err)
	}

	if err := uc.writeCover(ctx, id, userID, d.CoverPhoto); err != nil {
		return nil, uc.fail(store, "Impossibile salvare la copertina", err)
	}
	if err := uc.writer.ReplaceItineraryStops(ctx, id, d.POIIDs); err != nil {
		return nil, uc.fail(store, "Impossibile salvare le tappe", err)
	}

	uc.logger.Info("Itinerary created",
		zap.String("itinerary_id", id),
		zap.String("user_id", userID),
		zap.Int("stops", len(d.POIIDs)))

	refetched := uc.succeed(ctx, store, "Itinerario creato",
		domain.NewCatalogEvent(domain.EntityItinerary, domain.ActionCreated, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

// Update - полное обновление. Новая обложка заменяет прежние фотографии
// маршрута; без новой обложки остаётся старая.
func (uc *ItineraryUseCase) Update(ctx context.Context, store *Store, id string, d dto.ItineraryDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}
	if catalog.ItineraryIndex(id) < 0 {
		return nil, uc.fail(store, "Impossibile aggiornare l'itinerario", errors.NotFound("Itinerario", id))
	}
	if err := validateItineraryDraft(d, &catalog, false); err != nil {
		return nil, uc.invalid(store, err)
	}

	if err := uc.writer.UpdateItinerary(ctx, id, itineraryRecord(d)); err != nil {
		return nil, uc.fail(store, "Impossibile aggiornare l'itinerario", err)
	}

	if !d.CoverPhoto.IsEmpty() {
		previous, err := uc.photos.Stored(ctx, domain.PhotoOwnerItinerary, id)
		if err != nil {
			return nil, uc.fail(store, "Impossibile salvare la copertina", err)
		}
		if err := uc.writeCover(ctx, id, userID, d.CoverPhoto); err != nil {
			return nil, uc.fail(store, "Impossibile salvare la copertina", err)
		}
		if err := uc.photos.Remove(ctx, domain.PhotoOwnerItinerary, id, photoIDs(previous)); err != nil {
			return nil, uc.fail(store, "Impossibile rimuovere la vecchia copertina", err)
		}
	}

	if err := uc.writer.ReplaceItineraryStops(ctx, id, d.POIIDs); err != nil {
		return nil, uc.fail(store, "Impossibile salvare le tappe", err)
	}

	refetched := uc.succeed(ctx, store, "Itinerario aggiornato",
		domain.NewCatalogEvent(domain.EntityItinerary, domain.ActionUpdated, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

func (uc *ItineraryUseCase) Delete(ctx context.Context, store *Store, id string) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}

	urls, err := uc.photos.StoredURLs(ctx, domain.PhotoOwnerItinerary, id)
	if err != nil {
		return nil, uc.fail(store, "Impossibile eliminare l'itinerario", err)
	}
	if err := uc.writer.DeleteItinerary(ctx, id); err != nil {
		return nil, uc.fail(store, "Impossibile eliminare l'itinerario", err)
	}
	uc.photos.RemoveBlobs(ctx, urls)

	refetched := uc.succeed(ctx, store, "Itinerario eliminato",
		domain.NewCatalogEvent(domain.EntityItinerary, domain.ActionDeleted, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

func (uc *ItineraryUseCase) writeCover(ctx context.Context, id, userID string, cover dto.PhotoUpload) error {
	records, err := uc.photos.Prepare(ctx, domain.PhotoOwnerItinerary, userID, []dto.PhotoUpload{cover})
	if err != nil {
		return err
	}
	return uc.photos.Insert(ctx, domain.PhotoOwnerItinerary, id, records)
}

func itineraryRecord(d dto.ItineraryDraft) domain.ItineraryRecord {
	return domain.ItineraryRecord{
		Title:             strings.TrimSpace(d.Title),
		Description:       strings.TrimSpace(d.Description),
		EstimatedDuration: EstimatedDuration(len(d.POIIDs)),
		Tags:              nonNilStrings(d.Tags),
	}
}

func photoIDs(records []domain.PhotoRecord) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}
