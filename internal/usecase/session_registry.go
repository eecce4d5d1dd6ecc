package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionRegistry хранит Store на каждого пользователя. Анонимные запросы
// используют общий Store с пустым userID.
type SessionRegistry struct {
	mu              sync.Mutex
	stores          map[string]*Store
	idleTTL         time.Duration
	notificationTTL time.Duration
	logger          *zap.Logger
	cron            *cron.Cron
	now             func() time.Time
}

func NewSessionRegistry(idleTTL, notificationTTL time.Duration, logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		stores:          make(map[string]*Store),
		idleTTL:         idleTTL,
		notificationTTL: notificationTTL,
		logger:          logger,
		now:             time.Now,
	}
}

// Get возвращает Store пользователя, создавая его при первом обращении
func (r *SessionRegistry) Get(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[userID]
	if !ok {
		store = NewStore(userID, r.notificationTTL)
		r.stores[userID] = store
		r.logger.Debug("Session store created", zap.String("user_id", userID))
	}
	store.Touch()
	return store
}

// Drop удаляет Store пользователя, например при смене сессии
func (r *SessionRegistry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Evict удаляет сессии, не использовавшиеся дольше idleTTL
func (r *SessionRegistry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, store := range r.stores {
		if store.LastSeen().Before(cutoff) {
			delete(r.stores, id)
			evicted++
		}
	}

	if evicted > 0 {
		r.logger.Info("Idle sessions evicted",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.stores)))
	}
	return evicted
}

// StartEviction запускает периодическую очистку по cron-расписанию
func (r *SessionRegistry) StartEviction(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { r.Evict() }); err != nil {
		return fmt.Errorf("invalid eviction schedule %q: %w", schedule, err)
	}

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()

	c.Start()
	r.logger.Info("Session eviction scheduled", zap.String("schedule", schedule))
	return nil
}

func (r *SessionRegistry) Stop() {
	r.mu.Lock()
	c := r.cron
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
