package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milan-history-map/internal/pkg/errors"
)

// parseBody разбирает JSON тела; структурные правила проверяет usecase,
// чтобы нарушения попали в одно агрегированное сообщение
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.ErrInvalidRequest.Wrap(err)
	}
	return nil
}
