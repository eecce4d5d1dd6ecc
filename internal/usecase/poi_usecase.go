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

// POIUseCase - создание, обновление и удаление POI
type POIUseCase struct {
	mutationSupport
	writer repository.ContentWriter
	photos *PhotoPipeline
	geo    repository.GeoRepository
}

// NewPOIUseCase - создание нового POIUseCase
func NewPOIUseCase(
	writer repository.ContentWriter,
	photos *PhotoPipeline,
	geo repository.GeoRepository,
	fetch *FetchUseCase,
	publisher repository.EventPublisher,
	logger *zap.Logger,
) *POIUseCase {
	return &POIUseCase{
		mutationSupport: mutationSupport{fetch: fetch, publisher: publisher, logger: logger},
		writer:          writer,
		photos:          photos,
		geo:             geo,
	}
}

// Create - конвейер создания: строка POI, загрузка и вставка фотографий,
// связи с категориями и персонажами
func (uc *POIUseCase) Create(ctx context.Context, store *Store, d dto.POIDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}

	plan, err := validatePOIDraft(d, &catalog)
	if err != nil {
		return nil, uc.invalid(store, err)
	}

	rec := uc.record(d, plan)
	rec.Location = uc.locate(ctx, plan.geometry)
	rec.AuthorID = userID

	id, err := uc.writer.InsertPOI(ctx, rec)
	if err != nil {
		return nil, uc.fail(store, "Impossibile creare il punto di interesse", err)
	}

	if err := uc.writeChildren(ctx, id, userID, d, plan); err != nil {
		return nil, uc.fail(store, "Impossibile completare il punto di interesse", err)
	}

	uc.logger.Info("POI created",
		zap.String("poi_id", id),
		zap.String("user_id", userID),
		zap.String("type", string(plan.geometry.Kind())))

	refetched := uc.succeed(ctx, store, "Punto di interesse creato",
		domain.NewCatalogEvent(domain.EntityPOI, domain.ActionCreated, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

// Update - полное обновление POI. Связи заменяются целиком; удалённые
// фотографии стираются, сохранённые получают новые подписи и координаты.
func (uc *POIUseCase) Update(ctx context.Context, store *Store, id string, d dto.POIDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}
	current, ok := catalog.FindPOI(id)
	if !ok {
		return nil, uc.fail(store, "Impossibile aggiornare il punto di interesse", errors.NotFound("POI", id))
	}

	plan, err := validatePOIDraft(d, &catalog)
	if err != nil {
		return nil, uc.invalid(store, err)
	}

	rec := uc.record(d, plan)
	rec.Location = current.Location
	if moved(current.Geometry, plan.geometry) || current.Location == "" {
		rec.Location = uc.locate(ctx, plan.geometry)
	}

	if err := uc.writer.UpdatePOI(ctx, id, rec); err != nil {
		return nil, uc.fail(store, "Impossibile aggiornare il punto di interesse", err)
	}

	if err := uc.writeChildren(ctx, id, userID, d, plan); err != nil {
		return nil, uc.fail(store, "Impossibile completare il punto di interesse", err)
	}
	if err := uc.photos.Remove(ctx, domain.PhotoOwnerPOI, id, d.RemovedPhotoIDs); err != nil {
		return nil, uc.fail(store, "Impossibile rimuovere le foto", err)
	}
	if err := uc.photos.ApplyEdits(ctx, domain.PhotoOwnerPOI, id, userID, d.ExistingPhotos); err != nil {
		return nil, uc.fail(store, "Impossibile aggiornare le foto", err)
	}

	refetched := uc.succeed(ctx, store, "Punto di interesse aggiornato",
		domain.NewCatalogEvent(domain.EntityPOI, domain.ActionUpdated, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

// Delete удаляет POI; строки связей и фотографий удаляются каскадом,
// файлы фотографий - после строки, без отката при ошибке
func (uc *POIUseCase) Delete(ctx context.Context, store *Store, id string) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}

	urls, err := uc.photos.StoredURLs(ctx, domain.PhotoOwnerPOI, id)
	if err != nil {
		return nil, uc.fail(store, "Impossibile eliminare il punto di interesse", err)
	}
	if err := uc.writer.DeletePOI(ctx, id); err != nil {
		return nil, uc.fail(store, "Impossibile eliminare il punto di interesse", err)
	}
	uc.photos.RemoveBlobs(ctx, urls)

	refetched := uc.succeed(ctx, store, "Punto di interesse eliminato",
		domain.NewCatalogEvent(domain.EntityPOI, domain.ActionDeleted, id, userID))
	return &dto.MutationResult{ID: id, Refetched: refetched}, nil
}

func (uc *POIUseCase) record(d dto.POIDraft, plan poiPlan) domain.POIRecord {
	rec := domain.NewPOIRecord(plan.geometry)
	rec.PeriodID = plan.period.ID
	rec.Title = strings.TrimSpace(d.Title)
	rec.EventDate = plan.eventDate
	rec.Description = strings.TrimSpace(d.Description)
	rec.Tags = nonNilStrings(d.Tags)
	return rec
}

// writeChildren - шаги 2-4: загрузка фотографий, вставка их строк,
// полная замена связей
func (uc *POIUseCase) writeChildren(ctx context.Context, id, userID string, d dto.POIDraft, plan poiPlan) error {
	records, err := uc.photos.Prepare(ctx, domain.PhotoOwnerPOI, userID, d.NewPhotos)
	if err != nil {
		return err
	}
	if err := uc.photos.Insert(ctx, domain.PhotoOwnerPOI, id, records); err != nil {
		return err
	}
	if err := uc.writer.ReplacePOICategories(ctx, id, plan.categoryIDs); err != nil {
		return err
	}
	return uc.writer.ReplacePOICharacters(ctx, id, plan.characterIDs)
}

// locate - название места по первой координате; при ошибке геокодера
// подставляются сами координаты
func (uc *POIUseCase) locate(ctx context.Context, g domain.Geometry) string {
	anchor, ok := domain.Anchor(g)
	if !ok {
		return ""
	}
	if uc.geo == nil {
		return coordinateLabel(anchor)
	}

	name, err := uc.geo.ReverseGeocode(ctx, anchor)
	if err != nil || name == "" {
		uc.logger.Debug("Reverse geocoding failed, using coordinates",
			zap.Float64("lat", anchor.Latitude),
			zap.Float64("lon", anchor.Longitude),
			zap.Error(err))
		return coordinateLabel(anchor)
	}
	return name
}

// moved reports whether the anchor coordinate of a POI changed.
func moved(before, after domain.Geometry) bool {
	a, okA := domain.Anchor(before)
	b, okB := domain.Anchor(after)
	if okA != okB {
		return true
	}
	return okA && !a.Equal(b)
}
