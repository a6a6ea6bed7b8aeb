package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"blogpulse/internal/apperrors"
	"blogpulse/internal/middleware"
	"blogpulse/internal/models"
	"blogpulse/internal/services"

	"github.com/labstack/echo/v4"
)

// StatsHandler handles HTTP requests for per-post engagement stats.
type StatsHandler struct {
	engagement *services.EngagementService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(engagement *services.EngagementService) *StatsHandler {
	return &StatsHandler{engagement: engagement}
}

// RegisterStatsRoutes registers the stats routes on the blogs group.
func (h *StatsHandler) RegisterStatsRoutes(g *echo.Group) {
	g.GET("/:slug/stats", h.GetStats)
	g.POST("/:slug/stats", h.PostStats)
}

// GetStats returns likes, views and the liked-by set for a post.
func (h *StatsHandler) GetStats(c echo.Context) error {
	slug := c.Param("slug")
	identity := middleware.IdentityFrom(c)

	stats, err := h.engagement.Stats(c.Request().Context(), slug, identity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models.OK(stats))
}

// PostStats records an engagement event: a view, a like toggle, or an
// explicit unlike. The response always carries the resulting stats.
func (h *StatsHandler) PostStats(c echo.Context) error {
	slug := c.Param("slug")
	ctx := c.Request().Context()

	var req models.StatsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	identity := strings.TrimSpace(req.UserIdentifier)
	if identity == "" {
		identity = middleware.IdentityFrom(c)
	}

	var isLiked *bool
	switch req.Action {
	case models.StatsActionView:
		if err := h.engagement.RecordView(ctx, slug); err != nil {
			return writeError(c, err)
		}
	case models.StatsActionLike:
		liked, err := h.engagement.ToggleLike(ctx, slug, identity)
		if err != nil {
			return writeError(c, err)
		}
		isLiked = &liked
	case models.StatsActionUnlike:
		liked, err := h.engagement.Unlike(ctx, slug, identity)
		if err != nil {
			return writeError(c, err)
		}
		isLiked = &liked
	default:
		return writeError(c, fmt.Errorf("%w: unknown action %q", apperrors.ErrValidation, req.Action))
	}

	stats, err := h.engagement.Stats(ctx, slug, identity)
	if err != nil {
		return writeError(c, err)
	}
	if isLiked != nil {
		// The toggle outcome is authoritative over the re-read.
		stats.IsLiked = *isLiked
	}
	return c.JSON(http.StatusOK, models.OK(stats))
}
