package repository

import "context"

// BlobStorage - объектное хранилище для бинарных файлов фотографий
type BlobStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// PublicURL returns the URL under which an uploaded path is served.
	PublicURL(path string) string

	// PathFromURL reverses PublicURL; ok is false for URLs the storage does not own.
	PathFromURL(url string) (path string, ok bool)

	// Remove deletes the given paths. Callers treat failures as best-effort.
	Remove(ctx context.Context, paths []string) error
}
