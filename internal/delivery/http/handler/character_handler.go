package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

type CharacterHandler struct {
	characterUC *usecase.CharacterUseCase
	logger      *zap.Logger
}

func NewCharacterHandler(characterUC *usecase.CharacterUseCase, logger *zap.Logger) *CharacterHandler {
	return &CharacterHandler{
		characterUC: characterUC,
		logger:      logger,
	}
}

// Create godoc
// @Summary Создать персонажа
// @Tags Characters
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param request body dto.CharacterDraft true "Черновик персонажа"
// @Success 201 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/characters [post]
func (h *CharacterHandler) Create(c *fiber.Ctx) error {
	var req dto.CharacterDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.characterUC.Create(c.UserContext(), middleware.StoreFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, result)
}

// Update godoc
// @Summary Обновить персонажа
// @Tags Characters
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "Character ID"
// @Param request body dto.CharacterDraft true "Полный черновик персонажа"
// @Success 200 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/characters/{id} [put]
func (h *CharacterHandler) Update(c *fiber.Ctx) error {
	var req dto.CharacterDraft
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.characterUC.Update(c.UserContext(), middleware.StoreFrom(c), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Удалить персонажа
// @Tags Characters
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Param id path string true "Character ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.MutationResult}
// @Router /api/v1/characters/{id} [delete]
func (h *CharacterHandler) Delete(c *fiber.Ctx) error {
	result, err := h.characterUC.Delete(c.UserContext(), middleware.StoreFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}
