package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles channel subscriptions
type SubscriptionHandler struct {
	relations *services.RelationService
	feeds     *services.FeedService
}

func NewSubscriptionHandler(relations *services.RelationService, feeds *services.FeedService) *SubscriptionHandler {
	return &SubscriptionHandler{relations: relations, feeds: feeds}
}

// RegisterSubscriptionRoutes registers subscription routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.POST("/subscriptions/:id", h.ToggleSubscription)
	g.GET("/subscriptions/:id/subscribers", h.ListSubscribers)
	g.GET("/subscriptions/:id/channels", h.ListSubscribedChannels)
}

// ToggleSubscription subscribes the caller to channel :id, or unsubscribes them
func (h *SubscriptionHandler) ToggleSubscription(c echo.Context) error {
	result, err := h.relations.Toggle(c.Request().Context(), middleware.ActorID(c), models.TargetChannel, c.Param("id"))
	if err != nil {
		return err
	}
	message := "Unsubscribed"
	if result.State == models.ToggleCreated {
		message = "Subscribed"
	}
	return respond(c, http.StatusOK, result, message)
}

func (h *SubscriptionHandler) ListSubscribers(c echo.Context) error {
	page, err := h.feeds.Subscribers(c.Request().Context(), middleware.ActorID(c), c.Param("id"), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

// ListSubscribedChannels lists the channels user :id subscribes to
func (h *SubscriptionHandler) ListSubscribedChannels(c echo.Context) error {
	page, err := h.feeds.SubscribedChannels(c.Request().Context(), middleware.ActorID(c), c.Param("id"), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}
