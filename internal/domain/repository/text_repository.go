package repository

import "context"

// TextGenerator - внешняя генеративная модель
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NarrationCache - кеш готовых нарраций по POI
type NarrationCache interface {
	// GetNarration returns "", false on a cache miss.
	GetNarration(ctx context.Context, poiID string) (string, bool, error)
	SetNarration(ctx context.Context, poiID, text string) error
	DeleteNarration(ctx context.Context, poiID string) error
}
