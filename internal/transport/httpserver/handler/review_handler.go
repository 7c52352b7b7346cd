package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paste-content-service/internal/app/service"
	"paste-content-service/internal/transport/httpserver/dto"
	"paste-content-service/internal/validator"
)

// ReviewHandler handles review HTTP requests.
type ReviewHandler struct {
	reviews   *service.ReviewService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, v *validator.Validator, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		validator: v,
		logger:    logger,
	}
}

// Add handles POST /api/v1/posts/:id/reviews
func (h *ReviewHandler) Add(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	review, err := h.reviews.Add(c.Context(), postID, req.UserID, req.Grade)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainReview(review))
}

// ListByPost handles GET /api/v1/posts/:id/reviews
func (h *ReviewHandler) ListByPost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	reviews, err := h.reviews.ListByPost(c.Context(), postID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainReviews(reviews))
}

// Delete handles DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	reviewID, err := c.ParamsInt("id")
	if err != nil || reviewID < 1 {
		return badRequest(c, "invalid review id", "INVALID_ID")
	}

	if err := h.reviews.Delete(c.Context(), reviewID); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
