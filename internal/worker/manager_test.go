package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/worker"
)

type blockingWorker struct {
	*worker.BaseWorker
	started chan struct{}
}

func newBlockingWorker(name string) *blockingWorker {
	return &blockingWorker{
		BaseWorker: worker.NewBaseWorker(name, "test-group", zap.NewNop()),
		started:    make(chan struct{}),
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	select {
	case <-w.StopChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type stuckWorker struct {
	*worker.BaseWorker
}

func (w *stuckWorker) Start(context.Context) error {
	time.Sleep(time.Second)
	return nil
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a, b := newBlockingWorker("a"), newBlockingWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	<-a.started
	<-b.started

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 20*time.Millisecond)
	m.Register(&stuckWorker{BaseWorker: worker.NewBaseWorker("stuck", "test-group", zap.NewNop())})

	require.NoError(t, m.Start(context.Background()))
	assert.ErrorContains(t, m.Stop(), "timed out")
}

func TestBaseWorker_PauseInterruptedByStop(t *testing.T) {
	w := worker.NewBaseWorker("pause", "test-group", zap.NewNop())
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = w.Stop()
	}()

	start := time.Now()
	assert.False(t, w.Pause(context.Background(), time.Minute))
	assert.Less(t, time.Since(start), time.Second)
}
