package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const principalKey = "principal_id"

// RequestLogger пишет одну структурную запись на запрос
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("X-Request-ID", requestID)

		start := time.Now()
		err := c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)

		return err
	}
}

// Principal извлекает уже аутентифицированную личность из X-User-ID.
// Аутентификацию выполняет внешний шлюз; бэкенд доверяет заголовку.
func Principal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "UNAUTHENTICATED",
					"message": "X-User-ID header is required",
				},
			})
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return badRequest(c, "X-User-ID must be a positive integer")
		}
		c.Locals(principalKey, userID)
		return c.Next()
	}
}

func principalID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(principalKey).(int64)
	return id
}
