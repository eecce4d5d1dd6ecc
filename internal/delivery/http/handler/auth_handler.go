package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/pkg/validator"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// AuthHandler - анонимный вход и текущий пользователь
type AuthHandler struct {
	authUC *usecase.AuthUseCase
	logger *zap.Logger
}

func NewAuthHandler(authUC *usecase.AuthUseCase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		logger: logger,
	}
}

// SignIn godoc
// @Summary Анонимный вход
// @Description Создаёт профиль и возвращает токен сессии
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest false "Отображаемое имя"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/auth/anonymous [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.Validation(validator.Violations(err)))
	}

	resp, err := h.authUC.SignInAnonymously(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, resp)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer <token>"
// @Success 200 {object} utils.SuccessResponse{data=domain.Profile}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.authUC.GetUser(c.UserContext(), middleware.Token(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, profile, nil)
}

// SignOut godoc
// @Summary Выход
// @Description Закрывает store сессии; токен остаётся действительным до истечения
// @Tags Auth
// @Param Authorization header string true "Bearer <token>"
// @Success 204
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/auth/sign-out [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	h.authUC.SignOut(middleware.UserID(c))
	return c.SendStatus(fiber.StatusNoContent)
}
