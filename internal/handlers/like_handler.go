package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like toggles on videos, comments and tweets
type LikeHandler struct {
	relations *services.RelationService
}

func NewLikeHandler(relations *services.RelationService) *LikeHandler {
	return &LikeHandler{relations: relations}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/likes/video/:id", h.toggle(models.TargetVideo, "Video"))
	g.POST("/likes/comment/:id", h.toggle(models.TargetComment, "Comment"))
	g.POST("/likes/tweet/:id", h.toggle(models.TargetTweet, "Tweet"))
}

// toggle likes the target if the caller has not, and unlikes it otherwise.
func (h *LikeHandler) toggle(targetType models.TargetType, label string) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := h.relations.Toggle(c.Request().Context(), middleware.ActorID(c), targetType, c.Param("id"))
		if err != nil {
			return err
		}
		message := label + " unliked"
		if result.State == models.ToggleCreated {
			message = label + " liked"
		}
		return respond(c, http.StatusOK, result, message)
	}
}
