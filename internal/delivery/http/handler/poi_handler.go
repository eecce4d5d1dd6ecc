package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// POIHandler - обработчик для POI (точки интереса) запросов
type POIHandler struct {
	poiUC  *usecase.POIUseCase
	logger *zap.Logger
}

// NewPOIHandler - создание нового POIHandler
func NewPOIHandler(poiUC *usecase.POIUseCase, logger *zap.Logger) *POIHandler {
	return &POIHandler{
		poiUC:  poiUC,
		logger: logger,
	}
}

// List godoc
// @Summary Список POI
// @Description POI из каталога сессии в порядке загрузки
// @Tags POI
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.POI}
// @Router /api/v1/pois [get]
func (h *POIHandler) List(c *fiber.Ctx) error {
	catalog, version, _ := middleware.StoreFrom(c).Catalog()
	return utils.SendSuccess(c, catalog.POIs, &utils.Meta{
		Total:   len(catalog.POIs),
		Version: version,
	})
}

// Create godoc
// @Summary Создать POI
// @Description Запись строки POI, загрузка фотографий, связи с категориями и персонажами. Все нарушенные правила возвращаются одним сообщением.
// @Tags POI
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param request body dto.POIDraft true "Черновик POI"
// @Success 201 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/pois [post]
func (h *POIHandler) Create(c *fiber.Ctx) error {
	var req dto.POIDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.poiUC.Create(c.UserContext(), middleware.StoreFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// Update godoc
// @Summary Обновить POI
// @Tags POI
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "POI ID"
// @Param request body dto.POIDraft true "Полный черновик POI"
// @Success 200 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/pois/{id} [put]
func (h *POIHandler) Update(c *fiber.Ctx) error {
	var req dto.POIDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.poiUC.Update(c.UserContext(), middleware.StoreFrom(c), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Удалить POI
// @Tags POI
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "POI ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/pois/{id} [delete]
func (h *POIHandler) Delete(c *fiber.Ctx) error {
	result, err := h.poiUC.Delete(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}
