package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"go.uber.org/zap"
)

// FavoriteHandler - переключение избранного с оптимистичным обновлением
type FavoriteHandler struct {
	favoriteUC *usecase.FavoriteUseCase
	logger     *zap.Logger
}

func NewFavoriteHandler(favoriteUC *usecase.FavoriteUseCase, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUC: favoriteUC,
		logger:     logger,
	}
}

// TogglePOI godoc
// @Summary Переключить избранное POI
// @Description При ошибке записи локальное состояние восстанавливается, в сессию добавляется уведомление.
// @Tags Favorites
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "POI ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.POI}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/pois/{id}/favorite [post]
func (h *FavoriteHandler) TogglePOI(c *fiber.Ctx) error {
	poi, err := h.favoriteUC.TogglePOIFavorite(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, poi, nil)
}

// ToggleItinerary godoc
// @Summary Переключить избранное маршрута
// @Tags Favorites
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Itinerary}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/itineraries/{id}/favorite [post]
func (h *FavoriteHandler) ToggleItinerary(c *fiber.Ctx) error {
	it, err := h.favoriteUC.ToggleItineraryFavorite(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, it, nil)
}
