package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/media"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PhotoPipeline - шаги записи фотографий: загрузка файлов в хранилище,
// вставка строк, правка подписей и координат, удаление
type PhotoPipeline struct {
	storage   repository.BlobStorage
	writer    repository.ContentWriter
	processor *media.Processor
	logger    *zap.Logger
	now       func() time.Time
}

func NewPhotoPipeline(
	storage repository.BlobStorage,
	writer repository.ContentWriter,
	processor *media.Processor,
	logger *zap.Logger,
) *PhotoPipeline {
	return &PhotoPipeline{
		storage:   storage,
		writer:    writer,
		processor: processor,
		logger:    logger,
		now:       time.Now,
	}
}

// ObjectPath - путь объекта в хранилище: "<kind>/<unix-millis>_<name>"
func ObjectPath(owner domain.PhotoOwner, fileName, ext string, at time.Time) string {
	return fmt.Sprintf("%s/%d_%s", owner, at.UnixMilli(), sanitizeFileName(fileName, ext))
}

// sanitizeFileName оставляет в имени только латиницу, цифры и дефисы
// и заменяет расширение на ext
func sanitizeFileName(name, ext string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	clean := utils.Slugify(stem)
	if clean == "" {
		clean = "foto"
	}
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(base))
	}
	return clean + ext
}

// Prepare загружает все файлы параллельно и возвращает записи фотографий
// в исходном порядке. Готовые URL используются как есть. Фотографии с
// координатами получают автора и время геометки.
func (p *PhotoPipeline) Prepare(ctx context.Context, owner domain.PhotoOwner, userID string, uploads []dto.PhotoUpload) ([]domain.PhotoRecord, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	stampedAt := p.now().UTC()
	records := make([]domain.PhotoRecord, len(uploads))

	// Отдельная миллисекунда на файл, чтобы одинаковые имена не совпали по пути
	g, gctx := errgroup.WithContext(ctx)
	for i, up := range uploads {
		g.Go(func() error {
			url, err := p.resolveURL(gctx, owner, up, stampedAt.Add(time.Duration(i)*time.Millisecond))
			if err != nil {
				return err
			}
			records[i] = newPhotoRecord(url, up, userID, stampedAt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (p *PhotoPipeline) resolveURL(ctx context.Context, owner domain.PhotoOwner, up dto.PhotoUpload, at time.Time) (string, error) {
	if len(up.Data) == 0 {
		return up.URL, nil
	}

	prepared, err := p.processor.Prepare(up.Data)
	if err != nil {
		return "", fmt.Errorf("photo %q: %w", up.FileName, err)
	}

	path := ObjectPath(owner, up.FileName, prepared.Extension, at)
	if err := p.storage.Upload(ctx, path, prepared.Data, prepared.ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	p.logger.Debug("Photo uploaded",
		zap.String("path", path),
		zap.Int("bytes", len(prepared.Data)),
		zap.Bool("resized", prepared.Resized))
	return p.storage.PublicURL(path), nil
}

func newPhotoRecord(url string, up dto.PhotoUpload, userID string, at time.Time) domain.PhotoRecord {
	rec := domain.PhotoRecord{URL: url, Caption: up.Caption}
	if up.Coordinates != nil {
		stampLocation(&rec, *up.Coordinates, userID, at)
	}
	return rec
}

func stampLocation(rec *domain.PhotoRecord, c domain.Coordinates, userID string, at time.Time) {
	lat, lon := c.Latitude, c.Longitude
	rec.Latitude, rec.Longitude = &lat, &lon
	author := userID
	rec.LocationAuthorID = &author
	rec.LocationSetAt = &at
}

func clearLocation(rec *domain.PhotoRecord) {
	rec.Latitude, rec.Longitude = nil, nil
	rec.LocationAuthorID = nil
	rec.LocationSetAt = nil
}

// Insert - пакетная вставка строк фотографий владельца
func (p *PhotoPipeline) Insert(ctx context.Context, owner domain.PhotoOwner, ownerID string, records []domain.PhotoRecord) error {
	if len(records) == 0 {
		return nil
	}
	return p.writer.InsertPhotos(ctx, owner, ownerID, records)
}

// ApplyEdits обновляет подписи и координаты сохранённых фотографий.
// Автор и время геометки переписываются, только если координаты изменились,
// и очищаются вместе с координатами.
func (p *PhotoPipeline) ApplyEdits(ctx context.Context, owner domain.PhotoOwner, ownerID, userID string, edits []dto.PhotoEdit) error {
	if len(edits) == 0 {
		return nil
	}

	stored, err := p.writer.ListPhotos(ctx, owner, ownerID)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.PhotoRecord, len(stored))
	for _, rec := range stored {
		byID[rec.ID] = rec
	}

	stampedAt := p.now().UTC()
	updates := make([]domain.PhotoRecord, 0, len(edits))
	for _, edit := range edits {
		rec, ok := byID[edit.ID]
		if !ok {
			return errors.NotFound("Foto", edit.ID)
		}
		rec.Caption = edit.Caption

		if !domain.SameCoordinates(recordCoordinates(rec), edit.Coordinates) {
			if edit.Coordinates == nil {
				clearLocation(&rec)
			} else {
				stampLocation(&rec, *edit.Coordinates, userID, stampedAt)
			}
		}
		updates = append(updates, rec)
	}

	return p.writer.UpdatePhotos(ctx, owner, updates)
}

func recordCoordinates(rec domain.PhotoRecord) *domain.Coordinates {
	if rec.Latitude == nil || rec.Longitude == nil {
		return nil
	}
	return &domain.Coordinates{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
}

// Remove удаляет строки фотографий владельца, затем пытается удалить файлы.
// Чужие id игнорируются.
func (p *PhotoPipeline) Remove(ctx context.Context, owner domain.PhotoOwner, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	stored, err := p.writer.ListPhotos(ctx, owner, ownerID)
	if err != nil {
		return err
	}
	wanted := NewIDSet(ids)

	var (
		owned []string
		urls  []string
	)
	for _, rec := range stored {
		if wanted.Has(rec.ID) {
			owned = append(owned, rec.ID)
			urls = append(urls, rec.URL)
		}
	}
	if len(owned) == 0 {
		return nil
	}

	if err := p.writer.DeletePhotos(ctx, owner, owned); err != nil {
		return err
	}
	p.RemoveBlobs(ctx, urls)
	return nil
}

// Stored - сохранённые фотографии владельца
func (p *PhotoPipeline) Stored(ctx context.Context, owner domain.PhotoOwner, ownerID string) ([]domain.PhotoRecord, error) {
	return p.writer.ListPhotos(ctx, owner, ownerID)
}

// StoredURLs - URL всех фотографий владельца, для удаления файлов после удаления сущности
func (p *PhotoPipeline) StoredURLs(ctx context.Context, owner domain.PhotoOwner, ownerID string) ([]string, error) {
	stored, err := p.Stored(ctx, owner, ownerID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(stored))
	for _, rec := range stored {
		urls = append(urls, rec.URL)
	}
	return urls, nil
}

// RemoveBlobs удаляет файлы хранилища по их публичным URL. Ошибка только
// логируется: строки к этому моменту уже удалены.
func (p *PhotoPipeline) RemoveBlobs(ctx context.Context, urls []string) {
	paths := make([]string, 0, len(urls))
	for _, u := range urls {
		if path, ok := p.storage.PathFromURL(u); ok {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return
	}

	if err := p.storage.Remove(ctx, paths); err != nil {
		p.logger.Warn("Failed to remove photo blobs",
			zap.Strings("paths", paths),
			zap.Error(err))
	}
}
