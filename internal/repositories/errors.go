package repositories

import "errors"

var (
	// ErrNotFound is returned when the addressed document or row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConditionFailed is returned when a guarded update matched nothing even though the
	// document may exist, e.g. the playlist changed between check and write.
	ErrConditionFailed = errors.New("condition failed")
)
