package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"go.uber.org/zap"
)

// Виды форм, которые клиент может открыть
var formKinds = map[string]bool{
	"poi":       true,
	"character": true,
	"itinerary": true,
	"category":  true,
	"period":    true,
}

// StateHandler - состояние сессии: каталог, карточка, форма, уведомления
type StateHandler struct {
	fetchUC *usecase.FetchUseCase
	logger  *zap.Logger
}

// NewStateHandler - создание нового StateHandler
func NewStateHandler(fetchUC *usecase.FetchUseCase, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		fetchUC: fetchUC,
		logger:  logger,
	}
}

// GetState godoc
// @Summary Состояние сессии
// @Description Возвращает нормализованный каталог, открытую карточку, активную форму, ошибку загрузки и уведомления. Первый запрос сессии загружает каталог.
// @Tags State
// @Produce json
// @Param Authorization header string false "Bearer <token>"
// @Success 200 {object} utils.SuccessResponse{data=usecase.StoreState}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/state [get]
func (h *StateHandler) GetState(c *fiber.Ctx) error {
	store := middleware.StoreFrom(c)

	if _, _, loaded := store.Catalog(); !loaded && store.FetchError() == nil {
		// Ошибка уже записана в store и видна в fetchError
		_ = h.fetchUC.Load(c.UserContext(), store)
	}

	return sendState(c, store)
}

// Refresh godoc
// @Summary Повторная загрузка каталога
// @Description Полная загрузка всех коллекций. При ошибке предыдущее состояние сохраняется.
// @Tags State
// @Produce json
// @Param Authorization header string false "Bearer <token>"
// @Success 200 {object} utils.SuccessResponse{data=usecase.StoreState}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/state/refresh [post]
func (h *StateHandler) Refresh(c *fiber.Ctx) error {
	store := middleware.StoreFrom(c)

	if err := h.fetchUC.Load(c.UserContext(), store); err != nil {
		return utils.SendError(c, err)
	}
	return sendState(c, store)
}

// OpenPOI godoc
// @Summary Открыть карточку POI
// @Tags State
// @Produce json
// @Param id path string true "POI ID"
// @Success 200 {object} utils.SuccessResponse{data=usecase.DetailView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/detail/pois/{id} [post]
func (h *StateHandler) OpenPOI(c *fiber.Ctx) error {
	store := middleware.StoreFrom(c)
	id := c.Params("id")

	if _, ok := store.OpenPOI(id); !ok {
		return utils.SendError(c, errors.NotFound("POI", id))
	}
	return utils.SendSuccess(c, store.Detail(), nil)
}

// OpenItinerary godoc
// @Summary Открыть карточку маршрута
// @Tags State
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.SuccessResponse{data=usecase.DetailView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/detail/itineraries/{id} [post]
func (h *StateHandler) OpenItinerary(c *fiber.Ctx) error {
	store := middleware.StoreFrom(c)
	id := c.Params("id")

	if _, ok := store.OpenItinerary(id); !ok {
		return utils.SendError(c, errors.NotFound("Itinerario", id))
	}
	return utils.SendSuccess(c, store.Detail(), nil)
}

// CloseDetail godoc
// @Summary Закрыть карточку
// @Tags State
// @Success 204
// @Router /api/v1/detail [delete]
func (h *StateHandler) CloseDetail(c *fiber.Ctx) error {
	middleware.StoreFrom(c).CloseDetail()
	return c.SendStatus(fiber.StatusNoContent)
}

// OpenForm godoc
// @Summary Открыть форму создания
// @Tags State
// @Param kind path string true "poi, character, itinerary, category, period"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/forms/{kind} [post]
func (h *StateHandler) OpenForm(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if !formKinds[kind] {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	middleware.StoreFrom(c).OpenForm(kind)
	return c.SendStatus(fiber.StatusNoContent)
}

// CloseForm godoc
// @Summary Закрыть активную форму
// @Tags State
// @Success 204
// @Router /api/v1/forms [delete]
func (h *StateHandler) CloseForm(c *fiber.Ctx) error {
	middleware.StoreFrom(c).CloseForm()
	return c.SendStatus(fiber.StatusNoContent)
}

// DismissNotification godoc
// @Summary Закрыть уведомление
// @Tags State
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/notifications/{id} [delete]
func (h *StateHandler) DismissNotification(c *fiber.Ctx) error {
	id := c.Params("id")
	if !middleware.StoreFrom(c).Dismiss(id) {
		return utils.SendError(c, errors.NotFound("Notifica", id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sendState(c *fiber.Ctx, store *usecase.Store) error {
	state := store.State()
	return utils.SendSuccess(c, state, &utils.Meta{
		Total:   len(state.Catalog.POIs),
		Version: state.Version,
	})
}
