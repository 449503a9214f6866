package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// VideoHandler handles single-video HTTP requests
type VideoHandler struct {
	videos *services.VideoService
}

func NewVideoHandler(videos *services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// RegisterVideoRoutes registers video routes
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group) {
	g.POST("/videos", h.PublishVideo)
	g.GET("/videos/:id", h.GetVideo)
	g.PATCH("/videos/:id", h.UpdateVideo)
	g.DELETE("/videos/:id", h.DeleteVideo)
	g.PATCH("/videos/:id/publish", h.TogglePublish)
}

// PublishVideo stores a video from already uploaded media handles
func (h *VideoHandler) PublishVideo(c echo.Context) error {
	var req models.CreateVideoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	video, err := h.videos.Publish(c.Request().Context(), middleware.ActorID(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, video, "Video published")
}

// GetVideo returns a video and counts the view
func (h *VideoHandler) GetVideo(c echo.Context) error {
	view, err := h.videos.Watch(c.Request().Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, view, "")
}

func (h *VideoHandler) UpdateVideo(c echo.Context) error {
	var req models.UpdateVideoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	video, err := h.videos.Update(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, video, "Video updated")
}

func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	if err := h.videos.Delete(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Video deleted")
}

func (h *VideoHandler) TogglePublish(c echo.Context) error {
	video, err := h.videos.TogglePublish(c.Request().Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		return err
	}
	message := "Video unpublished"
	if video.IsPublished {
		message = "Video published"
	}
	return respond(c, http.StatusOK, video, message)
}
