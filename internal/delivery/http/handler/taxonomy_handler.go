package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// TaxonomyHandler - категории и исторические периоды
type TaxonomyHandler struct {
	taxonomyUC *usecase.TaxonomyUseCase
	logger     *zap.Logger
}

func NewTaxonomyHandler(taxonomyUC *usecase.TaxonomyUseCase, logger *zap.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyUC: taxonomyUC,
		logger:     logger,
	}
}

// CreateCategory godoc
// @Summary Создать категорию
// @Description ID категории - slug имени
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param request body dto.CategoryDraft true "Категория"
// @Success 201 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/categories [post]
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.taxonomyUC.CreateCategory(c.UserContext(), middleware.StoreFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// CreatePeriod godoc
// @Summary Создать исторический период
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param request body dto.PeriodDraft true "Период"
// @Success 201 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/periods [post]
func (h *TaxonomyHandler) CreatePeriod(c *fiber.Ctx) error {
	var req dto.PeriodDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.taxonomyUC.CreatePeriod(c.UserContext(), middleware.StoreFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}
