package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedHandler serves the paginated, viewer-enriched listings
type FeedHandler struct {
	feeds *services.FeedService
}

func NewFeedHandler(feeds *services.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// RegisterFeedRoutes registers listing routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/videos", h.ListVideos)
	g.GET("/videos/:id/comments", h.ListComments)
	g.GET("/tweets/user/:id", h.ListTweets)
	g.GET("/likes/videos", h.ListLikedVideos)
	g.GET("/dashboard/videos", h.ListChannelVideos)
}

// ListVideos supports query (text search), userId, sortBy, sortType, page and limit
func (h *FeedHandler) ListVideos(c echo.Context) error {
	sort, err := models.ParseSort(c.QueryParam("sortBy"), c.QueryParam("sortType"), models.VideoSortFields)
	if err != nil {
		return apperrors.Invalid(err.Error())
	}
	filter := models.VideoFilter{Query: c.QueryParam("query")}
	if userID := c.QueryParam("userId"); userID != "" {
		owner, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return apperrors.Invalid("invalid user id")
		}
		filter.OwnerID = owner
	}

	page, err := h.feeds.Videos(c.Request().Context(), middleware.ActorID(c), filter, sort, pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

func (h *FeedHandler) ListComments(c echo.Context) error {
	page, err := h.feeds.Comments(c.Request().Context(), middleware.ActorID(c), c.Param("id"), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

func (h *FeedHandler) ListTweets(c echo.Context) error {
	page, err := h.feeds.Tweets(c.Request().Context(), middleware.ActorID(c), c.Param("id"), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

// ListLikedVideos returns the caller's liked videos, most recently liked first
func (h *FeedHandler) ListLikedVideos(c echo.Context) error {
	page, err := h.feeds.LikedVideos(c.Request().Context(), middleware.ActorID(c), pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}

// ListChannelVideos returns all of the caller's own videos, drafts included
func (h *FeedHandler) ListChannelVideos(c echo.Context) error {
	actorID := middleware.ActorID(c)
	owner, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return apperrors.Unauthorized("Authentication required")
	}
	sort, err := models.ParseSort(c.QueryParam("sortBy"), c.QueryParam("sortType"), models.VideoSortFields)
	if err != nil {
		return apperrors.Invalid(err.Error())
	}

	page, err := h.feeds.Videos(c.Request().Context(), actorID, models.VideoFilter{OwnerID: owner}, sort, pageRequest(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "")
}
