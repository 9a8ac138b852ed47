package publish

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks a permanent capability gap, not a transient
// condition. Callers must not retry.
var ErrNotImplemented = errors.New("platform upload not implemented")

// ErrMissingMediaID is returned when the platform answers 2xx but the
// response carries no media identifier.
var ErrMissingMediaID = errors.New("platform response missing media id")

type UnsupportedPlatformError struct {
	Name string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q", e.Name)
}

type InvalidScheduleTimeError struct {
	Value string
}

func (e *InvalidScheduleTimeError) Error() string {
	return fmt.Sprintf("invalid scheduled publish time %q", e.Value)
}

// UploadError is a fatal non-2xx answer from the media-insert endpoint.
// It is never retried.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.Status, e.Body)
}
