package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/pkg/auth"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
)

const (
	localsStore  = "session_store"
	localsUserID = "user_id"
	localsToken  = "session_token"
)

// SessionResolver проверяет токены; реализуется AuthUseCase
type SessionResolver interface {
	GetSession(token string) (*auth.Claims, error)
}

// Session привязывает к запросу store сессии. Без заголовка Authorization
// используется общий анонимный store; неверный токен отклоняется.
func Session(resolver SessionResolver, sessions *usecase.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))

		userID := ""
		if token != "" {
			claims, err := resolver.GetSession(token)
			if err != nil {
				return utils.SendError(c, err)
			}
			userID = claims.UserID
		}

		store := sessions.Get(userID)
		store.Touch()

		c.Locals(localsStore, store)
		c.Locals(localsUserID, userID)
		c.Locals(localsToken, token)
		return c.Next()
	}
}

// RequireUser отклоняет анонимные запросы
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return utils.SendError(c, errors.ErrUnauthenticated)
		}
		return c.Next()
	}
}

// StoreFrom returns the session store bound by Session.
func StoreFrom(c *fiber.Ctx) *usecase.Store {
	store, _ := c.Locals(localsStore).(*usecase.Store)
	return store
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
