package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PlaylistHandler handles playlist HTTP requests
type PlaylistHandler struct {
	playlists *services.PlaylistService
}

func NewPlaylistHandler(playlists *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// RegisterPlaylistRoutes registers playlist routes
func (h *PlaylistHandler) RegisterPlaylistRoutes(g *echo.Group) {
	g.POST("/playlists", h.CreatePlaylist)
	g.GET("/playlists/user/:id", h.ListUserPlaylists)
	g.GET("/playlists/:id", h.GetPlaylist)
	g.PATCH("/playlists/:id", h.UpdatePlaylist)
	g.DELETE("/playlists/:id", h.DeletePlaylist)
	g.POST("/playlists/:id/videos/:videoId", h.AddVideo)
	g.DELETE("/playlists/:id/videos/:videoId", h.RemoveVideo)
}

func (h *PlaylistHandler) CreatePlaylist(c echo.Context) error {
	var req models.CreatePlaylistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Create(c.Request().Context(), middleware.ActorID(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, playlist, "Playlist created")
}

func (h *PlaylistHandler) ListUserPlaylists(c echo.Context) error {
	page, err := h.playlists.ListByOwner(c.Request().Context(), c.Param("id"), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

// GetPlaylist returns the playlist with the member videos the caller may see
func (h *PlaylistHandler) GetPlaylist(c echo.Context) error {
	view, err := h.playlists.Get(c.Request().Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, view, "")
}

func (h *PlaylistHandler) UpdatePlaylist(c echo.Context) error {
	var req models.UpdatePlaylistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Update(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, playlist, "Playlist updated")
}

func (h *PlaylistHandler) DeletePlaylist(c echo.Context) error {
	if err := h.playlists.Delete(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Playlist deleted")
}

func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	playlist, err := h.playlists.AddVideo(c.Request().Context(), middleware.ActorID(c), c.Param("id"), c.Param("videoId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, playlist, "Video added to playlist")
}

func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	playlist, err := h.playlists.RemoveVideo(c.Request().Context(), middleware.ActorID(c), c.Param("id"), c.Param("videoId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, playlist, "Video removed from playlist")
}
