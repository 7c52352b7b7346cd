package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paste-content-service/internal/app/service"
	"paste-content-service/internal/transport/httpserver/dto"
	"paste-content-service/internal/validator"
)

// LikeHandler handles like HTTP requests.
type LikeHandler struct {
	likes     *service.LikeService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likes *service.LikeService, v *validator.Validator, logger *zap.Logger) *LikeHandler {
	return &LikeHandler{
		likes:     likes,
		validator: v,
		logger:    logger,
	}
}

// Like handles POST /api/v1/posts/:id/likes
func (h *LikeHandler) Like(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	var req dto.LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.likes.Like(c.Context(), postID, req.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// Unlike handles DELETE /api/v1/posts/:id/likes
func (h *LikeHandler) Unlike(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	var req dto.LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.likes.Unlike(c.Context(), postID, req.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikedPosts handles GET /api/v1/users/:id/likes
func (h *LikeHandler) LikedPosts(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return badRequest(c, "invalid user id", "INVALID_ID")
	}

	ids, err := h.likes.LikedPostIDs(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.LikedPostsResponse{PostIDs: ids})
}
