package usecase

import (
	"context"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/errors"
	"go.uber.org/zap"
)

// mutationSupport - общие шаги конвейеров создания, обновления и удаления.
// Шаги выполняются по очереди без транзакции: при ошибке уже выполненные
// шаги остаются в силе, повторной загрузки нет.
type mutationSupport struct {
	fetch     *FetchUseCase
	publisher repository.EventPublisher
	logger    *zap.Logger
}

// requireUser не пишет уведомление в анонимный store: он общий для всех посетителей
func (m *mutationSupport) requireUser(store *Store) (string, error) {
	userID := store.UserID()
	if userID == "" {
		return "", errors.ErrUnauthenticated
	}
	return userID, nil
}

func (m *mutationSupport) catalogFor(ctx context.Context, store *Store) (domain.Catalog, error) {
	return loadedCatalog(ctx, m.fetch, store)
}

// loadedCatalog возвращает каталог сессии, загружая его при первом обращении
func loadedCatalog(ctx context.Context, fetch *FetchUseCase, store *Store) (domain.Catalog, error) {
	if catalog, _, loaded := store.Catalog(); loaded {
		return catalog, nil
	}
	if err := fetch.Load(ctx, store); err != nil {
		return domain.Catalog{}, err
	}
	catalog, _, _ := store.Catalog()
	return catalog, nil
}

// invalid показывает агрегированное сообщение валидации
func (m *mutationSupport) invalid(store *Store, err error) error {
	if appErr, ok := errors.As(err); ok {
		store.Notify(domain.NotificationError, appErr.Message)
	}
	return err
}

// fail прерывает конвейер: уведомление с причиной, без повторной загрузки
func (m *mutationSupport) fail(store *Store, message string, err error) error {
	m.logger.Error(message,
		zap.String("user_id", store.UserID()),
		zap.Error(err))

	if appErr, ok := errors.As(err); ok && appErr.Code == errors.CodeNotFound {
		store.Notify(domain.NotificationError, appErr.Message)
		return appErr
	}

	appErr := errors.MutationFailed(message, err)
	store.Notify(domain.NotificationError, appErr.Message)
	return appErr
}

// succeed закрывает форму, показывает уведомление, публикует событие и
// полностью перезагружает каталог. Возвращает false, если перезагрузка не
// удалась: ошибка уже записана в store.
func (m *mutationSupport) succeed(ctx context.Context, store *Store, message string, event domain.CatalogEvent) bool {
	store.CloseForm()
	store.Notify(domain.NotificationSuccess, message)

	if m.publisher != nil {
		if err := m.publisher.PublishCatalogEvent(ctx, event); err != nil {
			m.logger.Warn("Failed to publish catalog event",
				zap.String("kind", string(event.Kind)),
				zap.String("entity_id", event.EntityID),
				zap.Error(err))
		}
	}

	if err := m.fetch.Load(ctx, store); err != nil {
		m.logger.Warn("Refetch after mutation failed",
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return false
	}
	return true
}
