package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// HistoryHandler serves the caller's watch history
type HistoryHandler struct {
	history *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) RegisterHistoryRoutes(g *echo.Group) {
	g.GET("/history", h.GetHistory)
	g.DELETE("/history", h.ClearHistory)
}

// GetHistory returns a page of watched videos, most recent first
func (h *HistoryHandler) GetHistory(c echo.Context) error {
	page, err := h.history.History(c.Request().Context(), middleware.ActorID(c), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

func (h *HistoryHandler) ClearHistory(c echo.Context) error {
	if err := h.history.Clear(c.Request().Context(), middleware.ActorID(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Watch history cleared")
}
