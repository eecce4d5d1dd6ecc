package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// ItineraryHandler - маршруты и их пешеходные линии
type ItineraryHandler struct {
	itineraryUC *usecase.ItineraryUseCase
	mapUC       *usecase.MapUseCase
	logger      *zap.Logger
}

func NewItineraryHandler(itineraryUC *usecase.ItineraryUseCase, mapUC *usecase.MapUseCase, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryUC: itineraryUC,
		mapUC:       mapUC,
		logger:      logger,
	}
}

// Create godoc
// @Summary Создать маршрут
// @Description Обложка и хотя бы одна остановка обязательны
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param request body dto.ItineraryDraft true "Черновик маршрута"
// @Success 201 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/itineraries [post]
func (h *ItineraryHandler) Create(c *fiber.Ctx) error {
	var req dto.ItineraryDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.itineraryUC.Create(c.UserContext(), middleware.StoreFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// Update godoc
// @Summary Обновить маршрут
// @Description Без новой обложки сохраняется прежняя
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "Itinerary ID"
// @Param request body dto.ItineraryDraft true "Полный черновик маршрута"
// @Success 200 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/itineraries/{id} [put]
func (h *ItineraryHandler) Update(c *fiber.Ctx) error {
	var req dto.ItineraryDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.itineraryUC.Update(c.UserContext(), middleware.StoreFrom(c), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Удалить маршрут
// @Tags Itineraries
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Router /api/v1/itineraries/{id} [delete]
func (h *ItineraryHandler) Delete(c *fiber.Ctx) error {
	result, err := h.itineraryUC.Delete(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Route godoc
// @Summary Пешеходная линия маршрута
// @Description Линия через опорные точки остановок по порядку, не более 25 точек
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/itineraries/{id}/route [get]
func (h *ItineraryHandler) Route(c *fiber.Ctx) error {
	route, err := h.mapUC.ItineraryRoute(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, route, nil)
}
