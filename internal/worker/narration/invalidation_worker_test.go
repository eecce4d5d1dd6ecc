package narration_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/worker/narration"
)

const group = "narration-invalidation-workers"

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockInvalidator is a mock of Invalidator
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, poiID string) error {
	args := m.Called(ctx, poiID)
	return args.Error(0)
}

func message(t *testing.T, id string, event domain.CatalogEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestInvalidationWorker_Name(t *testing.T) {
	w := narration.NewInvalidationWorker(&MockStreamRepository{}, &MockInvalidator{}, group, 3, time.Second, zap.NewNop())
	assert.Equal(t, "narration-invalidation", w.Name())
	assert.Equal(t, group, w.ConsumerGroup())
}

func TestInvalidationWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty stream", func(t *testing.T) {
		stream := &MockStreamRepository{}
		stream.On("ConsumeBatch", mock.Anything, domain.StreamCatalogChanged, group, mock.Anything, 20).
			Return([]domain.StreamMessage{}, nil)

		w := narration.NewInvalidationWorker(stream, &MockInvalidator{}, group, 3, time.Second, zap.NewNop())
		processed, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Zero(t, processed)
		stream.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only poi updates and deletes invalidate", func(t *testing.T) {
		stream := &MockStreamRepository{}
		invalidator := &MockInvalidator{}

		stream.On("ConsumeBatch", mock.Anything, domain.StreamCatalogChanged, group, mock.Anything, 20).
			Return([]domain.StreamMessage{
				message(t, "1-0", domain.NewCatalogEvent(domain.EntityPOI, domain.ActionUpdated, "p1", "user-1")),
				message(t, "2-0", domain.NewCatalogEvent(domain.EntityPOI, domain.ActionCreated, "p2", "user-1")),
				message(t, "3-0", domain.NewCatalogEvent(domain.EntityCharacter, domain.ActionUpdated, "c1", "user-1")),
				message(t, "4-0", domain.NewCatalogEvent(domain.EntityPOI, domain.ActionDeleted, "p3", "user-1")),
				{ID: "5-0", Data: "{broken"},
			}, nil)
		stream.On("AckMessage", mock.Anything, domain.StreamCatalogChanged, group, mock.Anything).Return(nil)
		invalidator.On("Invalidate", mock.Anything, "p1").Return(nil)
		invalidator.On("Invalidate", mock.Anything, "p3").Return(nil)

		w := narration.NewInvalidationWorker(stream, invalidator, group, 3, time.Second, zap.NewNop())
		processed, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 5, processed)
		invalidator.AssertExpectations(t)
		invalidator.AssertNumberOfCalls(t, "Invalidate", 2)
		stream.AssertNumberOfCalls(t, "AckMessage", 5)
	})

	t.Run("retries then acks", func(t *testing.T) {
		stream := &MockStreamRepository{}
		invalidator := &MockInvalidator{}

		stream.On("ConsumeBatch", mock.Anything, domain.StreamCatalogChanged, group, mock.Anything, 20).
			Return([]domain.StreamMessage{
				message(t, "1-0", domain.NewCatalogEvent(domain.EntityPOI, domain.ActionUpdated, "p1", "user-1")),
			}, nil)
		stream.On("AckMessage", mock.Anything, domain.StreamCatalogChanged, group, "1-0").Return(nil)
		invalidator.On("Invalidate", mock.Anything, "p1").Return(stderrors.New("redis down"))

		w := narration.NewInvalidationWorker(stream, invalidator, group, 2, time.Second, zap.NewNop())
		_, err := w.ProcessBatch(ctx)

		require.NoError(t, err)
		invalidator.AssertNumberOfCalls(t, "Invalidate", 2)
		stream.AssertCalled(t, "AckMessage", mock.Anything, domain.StreamCatalogChanged, group, "1-0")
	})

	t.Run("consume failure", func(t *testing.T) {
		stream := &MockStreamRepository{}
		stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, stderrors.New("connection refused"))

		w := narration.NewInvalidationWorker(stream, &MockInvalidator{}, group, 3, time.Second, zap.NewNop())
		_, err := w.ProcessBatch(ctx)

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestInvalidationWorker_StartStop(t *testing.T) {
	stream := &MockStreamRepository{}
	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamCatalogChanged, group).Return(nil)
	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)

	w := narration.NewInvalidationWorker(stream, &MockInvalidator{}, group, 3, 10*time.Millisecond, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.IsStopped())
}

func TestInvalidationWorker_ConsumerGroupFailure(t *testing.T) {
	stream := &MockStreamRepository{}
	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamCatalogChanged, group).Return(stderrors.New("NOAUTH"))

	w := narration.NewInvalidationWorker(stream, &MockInvalidator{}, group, 3, time.Second, zap.NewNop())
	assert.ErrorContains(t, w.Start(context.Background()), "consumer group")
}
