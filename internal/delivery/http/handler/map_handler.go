package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
)

type MapHandler struct {
	mapUC *usecase.MapUseCase
}

func NewMapHandler(mapUC *usecase.MapUseCase) *MapHandler {
	return &MapHandler{mapUC: mapUC}
}

// Config godoc
// @Summary Настройки карты
// @Description Стиль, публичный токен и начальный вид на центр Милана
// @Tags Map
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.MapConfigResponse}
// @Router /api/v1/map/config [get]
func (h *MapHandler) Config(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.mapUC.MapConfig(), nil)
}
