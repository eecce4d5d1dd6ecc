package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/errors"
)

// DetailView - копия открытой карточки. Заполнено не более одного поля.
type DetailView struct {
	POI       *domain.POI       `json:"poi,omitempty"`
	Itinerary *domain.Itinerary `json:"itinerary,omitempty"`
}

func (d DetailView) subject() string {
	switch {
	case d.POI != nil:
		return "poi:" + d.POI.ID
	case d.Itinerary != nil:
		return "itinerary:" + d.Itinerary.ID
	}
	return ""
}

func (d DetailView) clone() DetailView {
	var out DetailView
	if d.POI != nil {
		p := *d.POI
		out.POI = &p
	}
	if d.Itinerary != nil {
		it := *d.Itinerary
		out.Itinerary = &it
	}
	return out
}

// StoreState - согласованный снимок состояния сессии для ответа клиенту
type StoreState struct {
	Catalog       domain.Catalog        `json:"catalog"`
	Loaded        bool                  `json:"loaded"`
	Version       uint64                `json:"version"`
	Detail        DetailView            `json:"detail"`
	ActiveForm    string                `json:"activeForm,omitempty"`
	FetchError    string                `json:"fetchError,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

// Store - состояние одной сессии: каталог, открытая карточка, активная форма,
// ошибка последней загрузки и уведомления. Меняется только через методы.
//
// Слайсы каталога никогда не изменяются на месте: каждое изменение
// подставляет новый слайс, поэтому выданные снимки остаются неизменными.
type Store struct {
	mu sync.Mutex

	userID          string
	catalog         domain.Catalog
	loaded          bool
	version         uint64
	generation      uint64
	detail          DetailView
	activeForm      string
	fetchErr        error
	notifications   []domain.Notification
	notificationTTL time.Duration
	lastSeen        time.Time

	now func() time.Time
}

func NewStore(userID string, notificationTTL time.Duration) *Store {
	return &Store{
		userID:          userID,
		notificationTTL: notificationTTL,
		lastSeen:        time.Now(),
		now:             time.Now,
	}
}

// UserID - пользователь сессии; пустая строка для анонимного доступа
func (s *Store) UserID() string {
	return s.userID
}

// Catalog returns the current snapshot, its version and whether any fetch
// has committed yet.
func (s *Store) Catalog() (domain.Catalog, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog, s.version, s.loaded
}

func (s *Store) State() StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := StoreState{
		Catalog:       s.catalog,
		Loaded:        s.loaded,
		Version:       s.version,
		Detail:        s.detail.clone(),
		ActiveForm:    s.activeForm,
		Notifications: s.activeNotificationsLocked(),
	}
	if s.fetchErr != nil {
		state.FetchError = s.fetchErr.Error()
		if appErr, ok := errors.As(s.fetchErr); ok {
			state.FetchError = fetchErrorBanner(appErr)
		}
	}
	return state
}

// fetchErrorBanner - текст баннера: общее сообщение и причина сбоя
func fetchErrorBanner(appErr *errors.AppError) string {
	if reason, ok := appErr.Details["reason"].(string); ok && reason != "" {
		return appErr.Message + ": " + reason
	}
	return appErr.Message
}

// BeginFetch выдаёт токен загрузки; зафиксирован будет только ответ
// с последним выданным токеном
func (s *Store) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// CommitFetch атомарно заменяет каталог. Возвращает false, если после
// выдачи токена была начата более новая загрузка.
func (s *Store) CommitFetch(token uint64, catalog domain.Catalog) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return false
	}

	s.catalog = catalog
	s.loaded = true
	s.version++
	s.fetchErr = nil
	s.refreshDetailLocked()
	return true
}

// FailFetch записывает ошибку загрузки, если токен актуален. Каталог не меняется.
func (s *Store) FailFetch(token uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return false
	}
	s.fetchErr = err
	return true
}

func (s *Store) FetchError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// refreshDetailLocked подменяет открытую карточку свежей копией из каталога
// или закрывает её, если сущность исчезла
func (s *Store) refreshDetailLocked() {
	switch {
	case s.detail.POI != nil:
		if p, ok := s.catalog.FindPOI(s.detail.POI.ID); ok {
			s.detail = DetailView{POI: &p}
		} else {
			s.detail = DetailView{}
		}
	case s.detail.Itinerary != nil:
		if it, ok := s.catalog.FindItinerary(s.detail.Itinerary.ID); ok {
			s.detail = DetailView{Itinerary: &it}
		} else {
			s.detail = DetailView{}
		}
	}
}

func (s *Store) OpenPOI(id string) (domain.POI, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.FindPOI(id)
	if !ok {
		return domain.POI{}, false
	}
	s.detail = DetailView{POI: &p}
	return p, true
}

func (s *Store) OpenItinerary(id string) (domain.Itinerary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.catalog.FindItinerary(id)
	if !ok {
		return domain.Itinerary{}, false
	}
	s.detail = DetailView{Itinerary: &it}
	return it, true
}

func (s *Store) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = DetailView{}
}

func (s *Store) Detail() DetailView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail.clone()
}

// OpenForm отмечает форму, которую заполняет пользователь ("poi", "itinerary", ...)
func (s *Store) OpenForm(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeForm = kind
}

func (s *Store) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeForm = ""
}

func (s *Store) ActiveForm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeForm
}

// FavoriteSnapshot - полный снимок коллекции и карточки до оптимистичного изменения
type FavoriteSnapshot struct {
	target      domain.FavoriteTarget
	version     uint64
	pois        []domain.POI
	itineraries []domain.Itinerary
	detail      DetailView
}

// FlipFavorite снимает снимок и инвертирует избранное цели вместе с копией
// в открытой карточке. Возвращает новое состояние флага.
func (s *Store) FlipFavorite(target domain.FavoriteTarget, id string) (FavoriteSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := FavoriteSnapshot{
		target:      target,
		version:     s.version,
		pois:        s.catalog.POIs,
		itineraries: s.catalog.Itineraries,
		detail:      s.detail.clone(),
	}

	switch target {
	case domain.FavoritePOI:
		i := s.catalog.POIIndex(id)
		if i < 0 {
			return FavoriteSnapshot{}, false, errors.NotFound("POI", id)
		}
		flipped := flipPOI(s.catalog.POIs[i])

		pois := make([]domain.POI, len(s.catalog.POIs))
		copy(pois, s.catalog.POIs)
		pois[i] = flipped
		s.catalog.POIs = pois

		if s.detail.POI != nil && s.detail.POI.ID == id {
			p := flipped
			s.detail = DetailView{POI: &p}
		}
		return snap, flipped.IsFavorited, nil

	case domain.FavoriteItinerary:
		i := s.catalog.ItineraryIndex(id)
		if i < 0 {
			return FavoriteSnapshot{}, false, errors.NotFound("Itinerario", id)
		}
		flipped := flipItinerary(s.catalog.Itineraries[i])

		itineraries := make([]domain.Itinerary, len(s.catalog.Itineraries))
		copy(itineraries, s.catalog.Itineraries)
		itineraries[i] = flipped
		s.catalog.Itineraries = itineraries

		if s.detail.Itinerary != nil && s.detail.Itinerary.ID == id {
			it := flipped
			s.detail = DetailView{Itinerary: &it}
		}
		return snap, flipped.IsFavorited, nil
	}

	return FavoriteSnapshot{}, false, errors.ErrInvalidRequest
}

func flipPOI(p domain.POI) domain.POI {
	if p.IsFavorited {
		return p.WithFavorite(false, max(p.FavoriteCount-1, 0))
	}
	return p.WithFavorite(true, p.FavoriteCount+1)
}

func flipItinerary(it domain.Itinerary) domain.Itinerary {
	if it.IsFavorited {
		return it.WithFavorite(false, max(it.FavoriteCount-1, 0))
	}
	return it.WithFavorite(true, it.FavoriteCount+1)
}

// RestoreFavorite возвращает коллекцию и карточку к снимку целиком.
// Если с момента снимка зафиксирована новая загрузка, каталог уже отражает
// удалённое состояние и восстановление пропускается (false).
// Карточка восстанавливается, только если открыта та же сущность.
func (s *Store) RestoreFavorite(snap FavoriteSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != snap.version {
		return false
	}

	switch snap.target {
	case domain.FavoritePOI:
		s.catalog.POIs = snap.pois
	case domain.FavoriteItinerary:
		s.catalog.Itineraries = snap.itineraries
	}

	if s.detail.subject() == snap.detail.subject() {
		s.detail = snap.detail.clone()
	}
	return true
}

// Notify добавляет уведомление, которое истекает через notificationTTL
func (s *Store) Notify(level domain.NotificationLevel, message string) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := domain.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.notificationTTL),
	}
	s.notifications = append(s.activeNotificationsLocked(), n)
	return n
}

// Notifications - неистёкшие уведомления, старые первыми
func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.activeNotificationsLocked()
	return append([]domain.Notification{}, s.notifications...)
}

// Dismiss закрывает уведомление; false, если его уже нет
func (s *Store) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) activeNotificationsLocked() []domain.Notification {
	now := s.now()
	active := make([]domain.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if now.Before(n.ExpiresAt) {
			active = append(active, n)
		}
	}
	return active
}

// Touch отмечает использование сессии
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

func (s *Store) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
