package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
)

// Ответы всегда в одном конверте: {"data": ...} либо {"error": {...}}.
// Сырые ошибки хранилища наружу не выходят.

func ok(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func fail(c *fiber.Ctx, err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return c.Status(statusOf(domainErr)).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			},
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "HTTP_ERROR",
				"message": fiberErr.Message,
			},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "INTERNAL",
			"message": "internal server error",
		},
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "BAD_REQUEST",
			"message": message,
		},
	})
}

func statusOf(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindPrecondition:
		// Нехватка кредитов и права доступа заслуживают собственных статусов
		switch e.Code {
		case apperr.ErrInsufficientCredits.Code:
			return fiber.StatusPaymentRequired
		case apperr.ErrNoPermission.Code, apperr.ErrNotATutor.Code:
			return fiber.StatusForbidden
		default:
			return fiber.StatusUnprocessableEntity
		}
	case apperr.KindIntegrity:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
