package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

// respondError maps domain errors onto the HTTP taxonomy: field-keyed 422 for
// validation, 403/404/409/401 for the sentinels, and a generic 500 whose body
// carries only a correlation id — the underlying error goes to the log under
// the same id, never to the client.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "validation failed",
			Fields:  vErr.Fields,
		})
	}
	switch {
	case errors.Is(err, domain.ErrHasSales):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "product has recorded sales",
			Fields:  map[string][]string{"product_id": {"cannot delete a product with recorded sales"}},
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "resource already exists"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflict with current state"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "email is already registered"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid credentials"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid input"})
	}

	correlationID := uuid.New().String()
	if log != nil {
		log.Error().
			Str("correlation_id", correlationID).
			Str("path", c.Path()).
			Err(err).
			Msg("request failed")
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:          "INTERNAL",
		Message:       "internal error",
		CorrelationID: correlationID,
	})
}
