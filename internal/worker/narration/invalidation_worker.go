package narration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize     = 20
	defaultIdlePause = time.Second
	errorPause       = time.Second
	retryPause       = 200 * time.Millisecond
)

// Invalidator - сброс закешированного рассказа о POI
type Invalidator interface {
	Invalidate(ctx context.Context, poiID string) error
}

// InvalidationWorker читает события изменения каталога и сбрасывает
// рассказы изменённых или удалённых POI
type InvalidationWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	invalidator  Invalidator
	consumerName string
	maxRetries   int
	idlePause    time.Duration
}

// NewInvalidationWorker создает новый InvalidationWorker
func NewInvalidationWorker(
	streamRepo repository.StreamRepository,
	invalidator Invalidator,
	consumerGroup string,
	maxRetries int,
	idlePause time.Duration,
	logger *zap.Logger,
) *InvalidationWorker {
	hostname, _ := os.Hostname()
	if maxRetries < 1 {
		maxRetries = 1
	}
	if idlePause <= 0 {
		idlePause = defaultIdlePause
	}

	return &InvalidationWorker{
		BaseWorker:   worker.NewBaseWorker("narration-invalidation", consumerGroup, logger),
		streamRepo:   streamRepo,
		invalidator:  invalidator,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		maxRetries:   maxRetries,
		idlePause:    idlePause,
	}
}

// Start запускает воркер
func (w *InvalidationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting narration invalidation worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCatalogChanged, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(ctx, errorPause)
			continue
		}
		if processed == 0 {
			w.Pause(ctx, w.idlePause)
		}
	}
}

// ProcessBatch читает до maxBatchSize событий и обрабатывает их.
// Возвращает количество прочитанных сообщений.
func (w *InvalidationWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(ctx,
		domain.StreamCatalogChanged,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	for _, msg := range messages {
		w.handle(ctx, msg)
	}
	return len(messages), nil
}

// handle подтверждает сообщение в любом случае: битое событие или
// исчерпанные попытки не должны застревать в pending
func (w *InvalidationWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))
	defer w.ack(ctx, msg.ID)

	var event domain.CatalogEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse catalog event, skipping", zap.Error(err))
		return
	}

	if !event.InvalidatesNarration() {
		logger.Debug("Event does not affect narrations",
			zap.String("kind", string(event.Kind)),
			zap.String("action", string(event.Action)))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if lastErr = w.invalidator.Invalidate(ctx, event.EntityID); lastErr == nil {
			logger.Info("Narration invalidated",
				zap.String("poi_id", event.EntityID),
				zap.String("action", string(event.Action)))
			return
		}
		if attempt < w.maxRetries && !w.Pause(ctx, retryPause) {
			break
		}
	}

	logger.Error("Failed to invalidate narration",
		zap.String("poi_id", event.EntityID),
		zap.Int("attempts", w.maxRetries),
		zap.Error(lastErr))
}

func (w *InvalidationWorker) ack(ctx context.Context, messageID string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamCatalogChanged, w.ConsumerGroup(), messageID); err != nil {
		// Сообщение останется в pending группы
		w.Logger().Warn("Failed to ack message",
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}
