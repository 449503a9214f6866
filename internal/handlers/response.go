package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Response is the envelope of every successful response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the error half of a failed response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

func respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Response{Success: true, Data: data, Message: message})
}

// ErrorHandler renders errors as {success:false, error:{code, message}}. Server-side
// failures are logged with their cause; the cause is never sent to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, detail := classify(err)
	metrics.RecordError(detail.Code)
	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			logger.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorResponse{Error: detail})
	}
	if writeErr != nil {
		logger.Log.Warn("Failed to write error response", zap.Error(writeErr))
	}
}

func classify(err error) (int, ErrorDetail) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Status(), ErrorDetail{Code: string(appErr.Kind), Message: appErr.Message}
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorDetail{Code: codeForStatus(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	}
	return http.StatusInternalServerError, ErrorDetail{Code: string(apperrors.OperationFailed), Message: "Internal server error"}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(apperrors.InvalidInput)
	case http.StatusUnauthorized:
		return string(apperrors.Unauthenticated)
	case http.StatusForbidden:
		return string(apperrors.Forbidden)
	case http.StatusNotFound:
		return string(apperrors.NotFound)
	case http.StatusInternalServerError:
		return string(apperrors.OperationFailed)
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Invalid("Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.Invalid(err.Error())
	}
	return nil
}

// pageRequest reads page and limit (or pageSize) from the query string.
func pageRequest(c echo.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	if size == 0 {
		size, _ = strconv.Atoi(c.QueryParam("pageSize"))
	}
	return models.NewPageRequest(page, size)
}
