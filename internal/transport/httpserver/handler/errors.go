// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paste-content-service/internal/domain"
	"paste-content-service/internal/transport/httpserver/dto"
)

// respondError maps domain errors to HTTP responses. Anything unrecognized
// is a 500 and gets logged; expected domain errors are the client's problem.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "post not found",
			Code:  "NOT_FOUND",
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: "conflicting lifecycle state",
			Code:  "CONFLICT",
		})
	case errors.Is(err, domain.ErrAlreadyLiked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: "already liked",
			Code:  "ALREADY_LIKED",
		})
	case errors.Is(err, domain.ErrLikeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "like not found",
			Code:  "LIKE_NOT_FOUND",
		})
	default:
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "internal error",
			Code:  "INTERNAL_ERROR",
		})
	}
}

// badRequest is the standard malformed-payload response.
func badRequest(c *fiber.Ctx, msg, code string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// validationFailed is the standard validation-error response.
func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: err,
	})
}
