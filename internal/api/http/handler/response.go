package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/samarthyatrust/samarthya_backend/internal/service/auth"
	"github.com/samarthyatrust/samarthya_backend/internal/service/newsletter"
	"github.com/samarthyatrust/samarthya_backend/internal/service/submission"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okMessage(c fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func created(c fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func listPage(c fiber.Ctx, data any, stats map[string]int, pagination fiber.Map) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"stats":      stats,
		"pagination": pagination,
	})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(fiber.Map{"success": false, "message": msg})
}

func fieldError(c fiber.Ctx, field, msg string) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(fiber.Map{"success": false, "message": msg, "field": field})
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": "unauthorized"})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).
		JSON(fiber.Map{"success": false, "message": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).
		JSON(fiber.Map{"success": false, "message": msg})
}

func tooManyRequests(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusTooManyRequests).
		JSON(fiber.Map{"success": false, "message": msg})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"success": false, "message": "internal server error"})
}

// serviceError maps the shared service error taxonomy onto responses.
func serviceError(c fiber.Ctx, err error) error {
	var verr *submission.ValidationError
	switch {
	case errors.As(err, &verr):
		return fieldError(c, verr.Field, verr.Message)
	case errors.Is(err, submission.ErrDuplicateRecent):
		return tooManyRequests(c, err.Error())
	case errors.Is(err, submission.ErrDuplicate),
		errors.Is(err, newsletter.ErrAlreadySubscribed):
		return conflict(c, err.Error())
	case errors.Is(err, submission.ErrNotFound),
		errors.Is(err, newsletter.ErrInvalidToken):
		return notFound(c, err.Error())
	case errors.Is(err, submission.ErrInvalidStatus):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, auth.ErrSessionExpired):
		return unauthorized(c)
	}
	return internalError(c)
}
