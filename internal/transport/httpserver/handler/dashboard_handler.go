package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paste-content-service/internal/app/service"
)

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	posts  *service.PostService
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(posts *service.PostService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		posts:  posts,
		logger: logger,
	}
}

// Render handles GET /dashboard
// Renders the operational dashboard using Fiber's template engine.
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	active, deleted, err := h.posts.Counts(c.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":        "Paste Service Dashboard",
		"ActiveCount":  active,
		"DeletedCount": deleted,
	}, "layouts/base")
}
