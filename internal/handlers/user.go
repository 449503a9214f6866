package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves profiles and the channel dashboard
type UserHandler struct {
	channels *services.ChannelService
}

func NewUserHandler(channels *services.ChannelService) *UserHandler {
	return &UserHandler{channels: channels}
}

// RegisterProfileRoutes registers profile and dashboard routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.GET("/users/:id", h.GetChannel)
	g.GET("/dashboard/stats", h.GetStats)
}

// GetMe returns the authenticated user
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.channels.Me(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "")
}

// GetChannel returns a channel profile with subscriber counts
func (h *UserHandler) GetChannel(c echo.Context) error {
	profile, err := h.channels.Profile(c.Request().Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile, "")
}

func (h *UserHandler) GetStats(c echo.Context) error {
	stats, err := h.channels.Stats(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats, "")
}
