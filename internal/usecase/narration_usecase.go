package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/usecase/dto"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// NarrationFailedMessage показывается вместо текста, если генерация не удалась
const NarrationFailedMessage = "Non è stato possibile generare il racconto per questo luogo. Riprova più tardi."

// NarrationUseCase - рассказ о POI от генеративной модели.
// Ошибки генерации не фатальны: ответ содержит Failed=true и сообщение.
type NarrationUseCase struct {
	generator repository.TextGenerator
	cache     repository.NarrationCache
	fetch     *FetchUseCase
	markdown  goldmark.Markdown
	logger    *zap.Logger
}

func NewNarrationUseCase(
	generator repository.TextGenerator,
	cache repository.NarrationCache,
	fetch *FetchUseCase,
	logger *zap.Logger,
) *NarrationUseCase {
	return &NarrationUseCase{
		generator: generator,
		cache:     cache,
		fetch:     fetch,
		markdown:  goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		logger:    logger,
	}
}

// Narrate возвращает рассказ из кеша или генерирует новый
func (uc *NarrationUseCase) Narrate(ctx context.Context, store *Store, poiID string) (*dto.NarrationResponse, error) {
	catalog, err := loadedCatalog(ctx, uc.fetch, store)
	if err != nil {
		return nil, err
	}
	poi, ok := catalog.FindPOI(poiID)
	if !ok {
		return nil, errors.NotFound("POI", poiID)
	}

	if uc.cache != nil {
		text, hit, err := uc.cache.GetNarration(ctx, poiID)
		if err != nil {
			uc.logger.Warn("Narration cache read failed", zap.String("poi_id", poiID), zap.Error(err))
		} else if hit {
			return uc.response(poiID, text, true), nil
		}
	}

	text, err := uc.generator.Generate(ctx, NarrationPrompt(poi, &catalog))
	if err != nil || strings.TrimSpace(text) == "" {
		uc.logger.Warn("Narration generation failed",
			zap.String("poi_id", poiID),
			zap.Error(err))
		return &dto.NarrationResponse{
			POIID:  poiID,
			Text:   NarrationFailedMessage,
			HTML:   "<p>" + NarrationFailedMessage + "</p>",
			Failed: true,
		}, nil
	}

	if uc.cache != nil {
		if err := uc.cache.SetNarration(ctx, poiID, text); err != nil {
			uc.logger.Warn("Narration cache write failed", zap.String("poi_id", poiID), zap.Error(err))
		}
	}

	return uc.response(poiID, text, false), nil
}

// Invalidate удаляет сохранённый рассказ POI
func (uc *NarrationUseCase) Invalidate(ctx context.Context, poiID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.DeleteNarration(ctx, poiID)
}

func (uc *NarrationUseCase) response(poiID, text string, cached bool) *dto.NarrationResponse {
	resp := &dto.NarrationResponse{POIID: poiID, Text: text, Cached: cached}

	var buf bytes.Buffer
	if err := uc.markdown.Convert([]byte(text), &buf); err != nil {
		uc.logger.Debug("Markdown render failed", zap.String("poi_id", poiID), zap.Error(err))
		return resp
	}
	resp.HTML = buf.String()
	return resp
}

// NarrationPrompt собирает запрос к модели из полей POI и связанных сущностей
func NarrationPrompt(poi domain.POI, catalog *domain.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Racconta la storia del luogo \"%s\" a Milano.\n", poi.Title)
	if poi.Location != "" {
		fmt.Fprintf(&b, "Posizione: %s.\n", poi.Location)
	}
	if poi.EventDate != "" {
		fmt.Fprintf(&b, "Data: %s.\n", poi.EventDate)
	}
	if p, ok := catalog.FindPeriod(poi.PeriodID); ok {
		fmt.Fprintf(&b, "Periodo: %s.\n", PeriodLabel(p))
	}

	var categories []string
	for _, c := range catalog.Categories {
		for _, id := range poi.CategoryIDs {
			if c.ID == id {
				categories = append(categories, c.Name)
			}
		}
	}
	if len(categories) > 0 {
		fmt.Fprintf(&b, "Categorie: %s.\n", strings.Join(categories, ", "))
	}

	var characters []string
	for _, id := range poi.LinkedCharacterIDs {
		if ch, ok := catalog.FindCharacter(id); ok {
			characters = append(characters, ch.Name)
		}
	}
	if len(characters) > 0 {
		fmt.Fprintf(&b, "Personaggi: %s.\n", strings.Join(characters, ", "))
	}

	if poi.Description != "" {
		fmt.Fprintf(&b, "Descrizione: %s\n", poi.Description)
	}
	b.WriteString("Scrivi al massimo tre paragrafi in Markdown, senza inventare fatti non plausibili.")
	return b.String()
}
