package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"go.uber.org/zap"
)

type NarrationHandler struct {
	narrationUC *usecase.NarrationUseCase
	logger      *zap.Logger
}

func NewNarrationHandler(narrationUC *usecase.NarrationUseCase, logger *zap.Logger) *NarrationHandler {
	return &NarrationHandler{
		narrationUC: narrationUC,
		logger:      logger,
	}
}

// Narrate godoc
// @Summary Рассказ о POI
// @Description Текст от генеративной модели, Markdown и HTML. Ошибка генерации возвращается с failed=true и статусом 200.
// @Tags Narration
// @Produce json
// @Param id path string true "POI ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.NarrationResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/pois/{id}/narration [get]
func (h *NarrationHandler) Narrate(c *fiber.Ctx) error {
	resp, err := h.narrationUC.Narrate(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, nil)
}
