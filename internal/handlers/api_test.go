package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/vidtube/backend/internal/handlers"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories/memory"
	"github.com/anonto42/vidtube/backend/internal/router"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/validators"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const secret = "handler-test-secret"

type envelope[T any] struct {
	Success bool                 `json:"success"`
	Data    T                    `json:"data"`
	Message string               `json:"message"`
	Error   handlers.ErrorDetail `json:"error"`
}

type APISuite struct {
	suite.Suite
	e     *echo.Echo
	store *memory.Store
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.store = memory.New()
	svc := services.New(services.Deps{
		Users:             s.store.Users(),
		Videos:            s.store.Videos(),
		Comments:          s.store.Comments(),
		Tweets:            s.store.Tweets(),
		Playlists:         s.store.Playlists(),
		Relations:         s.store.Relations(),
		WatchHistoryLimit: 5,
	})

	s.e = echo.New()
	s.e.Validator = validators.NewValidator()
	config.SetupMiddleware(s.e)
	router.SetupRoutes(s.e, svc, middleware.NewJWTVerifier(secret))
}

// user stores a user and returns its id and a bearer token for it.
func (s *APISuite) user(name string) (string, string) {
	u := &models.User{Username: name, FullName: name, Email: name + "@example.com"}
	s.Require().NoError(s.store.Users().Create(context.Background(), u))

	claims := &models.JwtCustomClaims{
		UserID:           u.ID.Hex(),
		Email:            u.Email,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	s.Require().NoError(err)
	return u.ID.Hex(), token
}

func (s *APISuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *APISuite) publish(token, title string) models.Video {
	rec := s.do(http.MethodPost, "/api/v1/videos", token, map[string]interface{}{
		"title":       title,
		"description": title + " description",
		"video_file":  map[string]interface{}{"url": "https://cdn.example.com/" + title + ".mp4", "duration": 12.5},
		"thumbnail":   map[string]interface{}{"url": "https://cdn.example.com/" + title + ".jpg"},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Video](s.T(), rec).Data
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "healthy")
}

func (s *APISuite) TestMutationsRequireAuthentication() {
	rec := s.do(http.MethodPost, "/api/v1/tweets", "", map[string]string{"content": "hi"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	body := decode[any](s.T(), rec)
	s.False(body.Success)
	s.Equal("UNAUTHENTICATED", body.Error.Code)

	rec = s.do(http.MethodPost, "/api/v1/tweets", "garbage", map[string]string{"content": "hi"})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestValidationErrors() {
	_, token := s.user("creator")

	rec := s.do(http.MethodPost, "/api/v1/videos", token, map[string]string{"title": "missing fields"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_INPUT", decode[any](s.T(), rec).Error.Code)

	rec = s.do(http.MethodGet, "/api/v1/videos?sortBy=password", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/videos/not-an-id", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestLikeToggleAndEnrichedListing() {
	_, creatorToken := s.user("creator")
	_, fanToken := s.user("fan")
	video := s.publish(creatorToken, "intro")
	path := "/api/v1/likes/video/" + video.ID.Hex()

	rec := s.do(http.MethodPost, path, fanToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	liked := decode[models.ToggleResult](s.T(), rec)
	s.Equal(models.ToggleCreated, liked.Data.State)
	s.Equal("Video liked", liked.Message)

	rec = s.do(http.MethodGet, "/api/v1/videos", fanToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	page := decode[models.Page[models.VideoView]](s.T(), rec).Data
	s.Require().Len(page.Items, 1)
	s.Equal(int64(1), page.TotalItems)
	s.Equal(int64(1), page.Items[0].LikesCount)
	s.True(page.Items[0].IsLiked)

	rec = s.do(http.MethodGet, "/api/v1/videos", "", nil)
	anon := decode[models.Page[models.VideoView]](s.T(), rec).Data
	s.False(anon.Items[0].IsLiked)

	rec = s.do(http.MethodPost, path, fanToken, nil)
	s.Equal(models.ToggleRemoved, decode[models.ToggleResult](s.T(), rec).Data.State)

	rec = s.do(http.MethodGet, "/api/v1/likes/videos", fanToken, nil)
	s.Equal(int64(0), decode[models.Page[models.VideoView]](s.T(), rec).Data.TotalItems)
}

func (s *APISuite) TestCommentOwnership() {
	_, creatorToken := s.user("creator")
	_, authorToken := s.user("author")
	video := s.publish(creatorToken, "intro")

	rec := s.do(http.MethodPost, "/api/v1/comments/"+video.ID.Hex(), authorToken, map[string]string{"content": "great"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[models.Comment](s.T(), rec).Data

	rec = s.do(http.MethodPatch, "/api/v1/comments/"+comment.ID.Hex(), creatorToken, map[string]string{"content": "edited"})
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("FORBIDDEN", decode[any](s.T(), rec).Error.Code)

	rec = s.do(http.MethodGet, "/api/v1/videos/"+video.ID.Hex()+"/comments", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	page := decode[models.Page[models.CommentView]](s.T(), rec).Data
	s.Require().Len(page.Items, 1)
	s.Equal("great", page.Items[0].Content)
	s.Equal("author", page.Items[0].Owner.Username)

	rec = s.do(http.MethodDelete, "/api/v1/comments/"+comment.ID.Hex(), authorToken, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestPlaylistMembershipConflicts() {
	_, token := s.user("curator")
	video := s.publish(token, "clip")

	rec := s.do(http.MethodPost, "/api/v1/playlists", token, map[string]string{"name": "faves"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	playlist := decode[models.Playlist](s.T(), rec).Data
	member := "/api/v1/playlists/" + playlist.ID.Hex() + "/videos/" + video.ID.Hex()

	s.Equal(http.StatusOK, s.do(http.MethodPost, member, token, nil).Code)
	rec = s.do(http.MethodPost, member, token, nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("ALREADY_PRESENT", decode[any](s.T(), rec).Error.Code)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, member, token, nil).Code)
	rec = s.do(http.MethodDelete, member, token, nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("NOT_PRESENT", decode[any](s.T(), rec).Error.Code)
}

func (s *APISuite) TestWatchHistoryAndDashboard() {
	creatorID, creatorToken := s.user("creator")
	_, viewerToken := s.user("viewer")
	a := s.publish(creatorToken, "a")
	b := s.publish(creatorToken, "b")

	for _, v := range []models.Video{a, b, a} {
		rec := s.do(http.MethodGet, "/api/v1/videos/"+v.ID.Hex(), viewerToken, nil)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.do(http.MethodGet, "/api/v1/history", viewerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	history := decode[models.Page[models.VideoView]](s.T(), rec).Data
	s.Require().Len(history.Items, 2)
	s.Equal(int64(2), history.TotalItems)
	s.Equal(a.ID, history.Items[0].ID)
	s.Equal(b.ID, history.Items[1].ID)

	rec = s.do(http.MethodGet, "/api/v1/history?page=2&limit=1", viewerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	second := decode[models.Page[models.VideoView]](s.T(), rec).Data
	s.Require().Len(second.Items, 1)
	s.Equal(b.ID, second.Items[0].ID)
	s.Equal(int64(2), second.TotalPages)

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/subscriptions/"+creatorID, viewerToken, nil).Code)

	rec = s.do(http.MethodGet, "/api/v1/dashboard/stats", creatorToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	stats := decode[models.ChannelStats](s.T(), rec).Data
	s.Equal(models.ChannelStats{TotalVideos: 2, TotalViews: 3, TotalLikes: 0, TotalSubscribers: 1}, stats)

	rec = s.do(http.MethodGet, "/api/v1/users/"+creatorID, viewerToken, nil)
	profile := decode[models.ChannelProfile](s.T(), rec).Data
	s.True(profile.IsSubscribed)
	s.Equal(int64(1), profile.SubscribersCount)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/v1/history", viewerToken, nil).Code)
	rec = s.do(http.MethodGet, "/api/v1/history", viewerToken, nil)
	cleared := decode[models.Page[models.VideoView]](s.T(), rec).Data
	s.Empty(cleared.Items)
	s.Zero(cleared.TotalItems)
}

func (s *APISuite) TestDraftsOnlyVisibleToOwner() {
	ownerID, ownerToken := s.user("owner")
	_, otherToken := s.user("other")
	video := s.publish(ownerToken, "draft")

	rec := s.do(http.MethodPatch, "/api/v1/videos/"+video.ID.Hex()+"/publish", ownerToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Video unpublished", decode[models.Video](s.T(), rec).Message)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/videos/"+video.ID.Hex(), otherToken, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/videos/"+video.ID.Hex(), ownerToken, nil).Code)

	rec = s.do(http.MethodGet, "/api/v1/videos?userId="+ownerID, otherToken, nil)
	s.Equal(int64(0), decode[models.Page[models.VideoView]](s.T(), rec).Data.TotalItems)
	rec = s.do(http.MethodGet, "/api/v1/dashboard/videos", ownerToken, nil)
	s.Equal(int64(1), decode[models.Page[models.VideoView]](s.T(), rec).Data.TotalItems)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = handlers.ErrorHandler
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[any](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}
