// FILE: internal/pkg/serverutils/error_middleware.go
package serverutils

import (
	"errors"

	"ai-knowledge-be/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so
// controllers can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		code := statusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidQuery),
		errors.Is(err, apperrors.ErrUnknownContentType):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrDocumentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrFetchFailed),
		errors.Is(err, apperrors.ErrExtractionFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrEmbedding),
		errors.Is(err, apperrors.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
