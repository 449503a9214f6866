package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TweetHandler handles tweet writes. Listing lives on /tweets/user/:id.
type TweetHandler struct {
	tweets *services.TweetService
}

func NewTweetHandler(tweets *services.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group) {
	g.POST("/tweets", h.CreateTweet)
	g.PATCH("/tweets/:id", h.UpdateTweet)
	g.DELETE("/tweets/:id", h.DeleteTweet)
}

func (h *TweetHandler) CreateTweet(c echo.Context) error {
	var req models.ContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Create(c.Request().Context(), middleware.ActorID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, tweet, "Tweet created")
}

func (h *TweetHandler) UpdateTweet(c echo.Context) error {
	var req models.ContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Update(c.Request().Context(), middleware.ActorID(c), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tweet, "Tweet updated")
}

func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	if err := h.tweets.Delete(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Tweet deleted")
}
