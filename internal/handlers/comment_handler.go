package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes. Listing lives on /videos/:id/comments.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments/:videoId", h.CreateComment)
	g.PATCH("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a video
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.ContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.Request().Context(), middleware.ActorID(c), c.Param("videoId"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, comment, "Comment added")
}

// UpdateComment edits a comment's content (author only)
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.ContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, comment, "Comment updated")
}

// DeleteComment removes a comment and its likes (author only)
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if err := h.comments.Delete(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Comment deleted")
}
