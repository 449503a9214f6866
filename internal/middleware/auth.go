package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorKey is the echo context key holding the authenticated user's hex id.
const ActorKey = "actorID"

// ErrInvalidToken is returned by verifiers for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier turns a bearer token into the id of the user it identifies.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Authenticate resolves the bearer token, if any, into ActorKey. Requests without an
// Authorization header continue anonymously; a malformed or rejected token is a 401.
func Authenticate(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			actorID, err := verifier.Verify(c.Request().Context(), parts[1])
			if errors.Is(err, ErrInvalidToken) {
				logger.Log.Debug("Token rejected", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve user").SetInternal(err)
			}

			c.Set(ActorKey, actorID)
			return next(c)
		}
	}
}

// ActorID returns the authenticated user's id, or "" for anonymous requests.
func ActorID(c echo.Context) string {
	id, _ := c.Get(ActorKey).(string)
	return id
}
