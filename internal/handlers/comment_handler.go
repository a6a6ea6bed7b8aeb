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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to blog comments.
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers the comment routes on the blogs group.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/:slug/comments", h.GetThread)
	g.POST("/:slug/comments", h.CreateComment)
	g.GET("/:slug/comments/count", h.GetCount)
	g.POST("/:slug/comments/:commentId/like", h.ToggleLike)
	g.PUT("/:slug/comments/:commentId", h.UpdateComment)
	g.DELETE("/:slug/comments/:commentId", h.DeleteComment)
}

// GetThread returns the threaded comments for a blog, roots ordered by the
// sort query parameter, replies oldest first.
func (h *CommentHandler) GetThread(c echo.Context) error {
	slug := c.Param("slug")
	sort := c.QueryParam("sort")

	threads, err := h.comments.Thread(c.Request().Context(), slug, sort)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models.OK(threads))
}

// CreateComment creates a top-level comment or a reply. A caller without an
// identity token gets one minted; the created record echoes it back as
// ownerIdentifier so the client can keep it for edits and deletes.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	slug := c.Param("slug")

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	identity := middleware.IdentityFrom(c)
	if identity == "" {
		identity = middleware.MintIdentity()
	}

	comment, err := h.comments.Create(c.Request().Context(), slug, req, identity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, models.OKMessage(comment, "Comment created"))
}

// GetCount returns the number of non-deleted top-level comments.
func (h *CommentHandler) GetCount(c echo.Context) error {
	slug := c.Param("slug")

	count, err := h.comments.CountRoots(c.Request().Context(), slug)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models.OK(models.CommentCountResponse{Count: count}))
}

// ToggleLike flips the caller's like on a comment.
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	slug := c.Param("slug")
	id, err := commentID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req models.CommentLikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	identity := strings.TrimSpace(req.UserID)
	if identity == "" {
		identity = middleware.IdentityFrom(c)
	}

	result, err := h.comments.ToggleLike(c.Request().Context(), id, slug, identity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models.OK(result))
}

// UpdateComment edits a comment's content; only the owner token captured at
// creation is authorized.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	slug := c.Param("slug")
	id, err := commentID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	identity := strings.TrimSpace(req.UserIdentifier)
	if identity == "" {
		identity = middleware.IdentityFrom(c)
	}

	comment, err := h.comments.Edit(c.Request().Context(), id, slug, req.Content, identity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models.OKMessage(comment, "Comment updated"))
}

// DeleteComment soft-deletes a comment; only the owner token is authorized.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	slug := c.Param("slug")
	id, err := commentID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req models.DeleteCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	identity := strings.TrimSpace(req.UserIdentifier)
	if identity == "" {
		identity = middleware.IdentityFrom(c)
	}

	if err := h.comments.Delete(c.Request().Context(), id, slug, identity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models.OKMessage(nil, "Comment deleted"))
}

// commentID parses the :commentId path parameter. A string that cannot be
// an ObjectID cannot name an existing comment, so it maps to NotFound.
func commentID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: comment", apperrors.ErrNotFound)
	}
	return id, nil
}
