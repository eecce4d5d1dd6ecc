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

// TaxonomyUseCase - категории и периоды. Id - slug имени и не меняется.
type TaxonomyUseCase struct {
	mutationSupport
	writer repository.ContentWriter
}

func NewTaxonomyUseCase(
	writer repository.ContentWriter,
	fetch *FetchUseCase,
	publisher repository.EventPublisher,
	logger *zap.Logger,
) *TaxonomyUseCase {
	return &TaxonomyUseCase{
		mutationSupport: mutationSupport{fetch: fetch, publisher: publisher, logger: logger},
		writer:          writer,
	}
}

func (uc *TaxonomyUseCase) CreateCategory(ctx context.Context, store *Store, d dto.CategoryDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	slug, err := validateCategoryDraft(d)
	if err != nil {
		return nil, uc.invalid(store, err)
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}
	if catalog.HasCategory(slug) {
		return nil, uc.invalid(store, errors.Conflict("Esiste già una categoria con questo nome"))
	}

	category := domain.Category{ID: slug, Name: strings.TrimSpace(d.Name)}
	if err := uc.writer.InsertCategory(ctx, category); err != nil {
		return nil, uc.fail(store, "Impossibile creare la categoria", err)
	}

	refetched := uc.succeed(ctx, store, "Categoria creata",
		domain.NewCatalogEvent(domain.EntityCategory, domain.ActionCreated, slug, userID))
	return &dto.MutationResult{ID: slug, Refetched: refetched}, nil
}

func (uc *TaxonomyUseCase) CreatePeriod(ctx context.Context, store *Store, d dto.PeriodDraft) (*dto.MutationResult, error) {
	userID, err := uc.requireUser(store)
	if err != nil {
		return nil, err
	}
	slug, err := validatePeriodDraft(d)
	if err != nil {
		return nil, uc.invalid(store, err)
	}
	catalog, err := uc.catalogFor(ctx, store)
	if err != nil {
		return nil, err
	}
	if _, exists := catalog.FindPeriod(slug); exists {
		return nil, uc.invalid(store, errors.Conflict("Esiste già un periodo con questo nome"))
	}

	period := domain.Period{
		ID:        slug,
		Name:      strings.TrimSpace(d.Name),
		StartYear: d.StartYear,
		EndYear:   d.EndYear,
	}
	if err := uc.writer.InsertPeriod(ctx, period); err != nil {
		return nil, uc.fail(store, "Impossibile creare il periodo", err)
	}

	refetched := uc.succeed(ctx, store, "Periodo creato",
		domain.NewCatalogEvent(domain.EntityPeriod, domain.ActionCreated, slug, userID))
	return &dto.MutationResult{ID: slug, Refetched: refetched}, nil
}
