package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated: http.StatusUnauthorized,
		Forbidden:       http.StatusForbidden,
		NotFound:        http.StatusNotFound,
		InvalidInput:    http.StatusBadRequest,
		AlreadyPresent:  http.StatusConflict,
		NotPresent:      http.StatusConflict,
		OperationFailed: http.StatusInternalServerError,
		Kind("bogus"):   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), string(kind))
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("toggle: %w", Failed("failed to update like", cause))

	require.Equal(t, OperationFailed, KindOf(err))
	assert.True(t, Is(err, OperationFailed))
	assert.False(t, Is(err, NotFound))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, Is(nil, NotFound))
}

func TestNotFoundfMessage(t *testing.T) {
	err := NotFoundf("Video")
	assert.Equal(t, "Video not found", err.Message)
	assert.Equal(t, "NOT_FOUND: Video not found", err.Error())
}
