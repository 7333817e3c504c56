package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ssmubc/Empathetic-Communication/internal/entity"
	"github.com/ssmubc/Empathetic-Communication/internal/service"
	"github.com/ssmubc/Empathetic-Communication/pkg/docload"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses so
// controllers can return errors directly.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, entity.ErrMalformedKey),
			errors.Is(err, docload.ErrUnsupportedFormat):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrFileNotFound),
			errors.Is(err, service.ErrPatientNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrAlreadyProcessing):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
		}
	}
}
