package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paste-content-service/internal/app/service"
	"paste-content-service/internal/domain"
	"paste-content-service/internal/transport/httpserver/dto"
	"paste-content-service/internal/validator"
)

// PostHandler handles post CRUD and lifecycle HTTP requests.
type PostHandler struct {
	posts     *service.PostService
	views     *service.ViewService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, views *service.ViewService, v *validator.Validator, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:     posts,
		views:     views,
		validator: v,
		logger:    logger,
	}
}

// viewerID extracts the authenticated user id set by the gateway, 0 when
// anonymous.
func viewerID(c *fiber.Ctx) int {
	id, err := strconv.Atoi(c.Get("X-User-ID"))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// Create handles POST /api/v1/posts
func (h *PostHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", "INVALID_BODY")
	}

	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	post, err := h.posts.Create(c.Context(), req.ToCreateInput())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainPost(post))
}

// GetByID handles GET /api/v1/posts/:id
func (h *PostHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	post, err := h.posts.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.recordView(c, post)

	return c.JSON(dto.FromDomainPost(post))
}

// GetBySlug handles GET /api/v1/posts/slug/:slug
func (h *PostHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "slug is required", "MISSING_SLUG")
	}

	post, err := h.posts.GetBySlug(c.Context(), slug)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.recordView(c, post)

	return c.JSON(dto.FromDomainPost(post))
}

// GetByHash handles GET /p/:hash
func (h *PostHandler) GetByHash(c *fiber.Ctx) error {
	hash := c.Params("hash")
	if hash == "" {
		return badRequest(c, "hash is required", "MISSING_HASH")
	}

	post, err := h.posts.GetByHash(c.Context(), hash)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.recordView(c, post)

	return c.JSON(dto.FromDomainPost(post))
}

// Delete handles DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	if err := h.posts.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Restore handles POST /api/v1/posts/:id/restore
func (h *PostHandler) Restore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "invalid post id", "INVALID_ID")
	}

	var req dto.RestorePostRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body", "INVALID_BODY")
		}
		if err := h.validator.Validate(&req); err != nil {
			return validationFailed(c, err)
		}
	}

	post, err := h.posts.Restore(c.Context(), id, req.Days)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainPost(post))
}

// ListByUser handles GET /api/v1/users/:id/posts
func (h *PostHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return badRequest(c, "invalid user id", "INVALID_ID")
	}

	var posts []*domain.Post
	switch c.Query("state") {
	case "deleted":
		posts, err = h.posts.ListDeletedByUser(c.Context(), userID)
	case "all":
		posts, err = h.posts.ListAllByUser(c.Context(), userID)
	default:
		posts, err = h.posts.ListByUser(c.Context(), userID)
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainPosts(posts))
}

// RestoreAllByUser handles POST /api/v1/users/:id/posts/restore
func (h *PostHandler) RestoreAllByUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return badRequest(c, "invalid user id", "INVALID_ID")
	}

	var req dto.RestorePostRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body", "INVALID_BODY")
		}
		if err := h.validator.Validate(&req); err != nil {
			return validationFailed(c, err)
		}
	}

	restored, err := h.posts.RestoreAllByUser(c.Context(), userID, req.Days)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainPosts(restored))
}

// DeleteAllByUser handles DELETE /api/v1/users/:id/posts
func (h *PostHandler) DeleteAllByUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return badRequest(c, "invalid user id", "INVALID_ID")
	}

	count, err := h.posts.DeleteAllByUser(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.BulkResponse{Count: count})
}

// recordView counts the view best-effort; a failed count never fails the read.
func (h *PostHandler) recordView(c *fiber.Ctx, post *domain.Post) {
	err := h.views.RecordView(
		c.Context(),
		post,
		viewerID(c),
		c.Get(fiber.HeaderXForwardedFor),
		c.Context().RemoteAddr().String(),
	)
	if err != nil {
		h.logger.Warn("view count failed", zap.Int("post_id", post.ID), zap.Error(err))
	}
}
