package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	// ErrNotFound means the record is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a request that failed input checks.
	ErrValidation = errors.New("validation failed")
	// ErrUpload marks a rejected file attachment.
	ErrUpload = errors.New("upload rejected")
	// ErrDependency wraps failures of the store or another backing service.
	ErrDependency = errors.New("dependency failure")

	ErrDuplicateCategory = fmt.Errorf("%w: category already exists", ErrValidation)
	ErrDefaultCategory   = fmt.Errorf("%w: cannot delete default category", ErrValidation)
)

// requestError carries the message shown to the client next to the
// sentinel used to pick a status code.
type requestError struct {
	kind error
	msg  string
}

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return e.kind }

func notFound(resource string) error {
	return &requestError{kind: ErrNotFound, msg: resource + " not found"}
}

func invalid(format string, args ...any) error {
	return &requestError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func uploadError(format string, args ...any) error {
	return &requestError{kind: ErrUpload, msg: fmt.Sprintf(format, args...)}
}

func dependency(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}

// statusFor maps an error onto the HTTP status returned to the client
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUpload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body. Unexpected failures are logged and
// answered with fallback so internals never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), fallback,
			"component", "http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	msg := err.Error()
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		msg = reqErr.msg
	} else if errors.Is(err, ErrDuplicateCategory) {
		msg = "Category already exists"
	} else if errors.Is(err, ErrDefaultCategory) {
		msg = "Cannot delete default category"
	}
	c.JSON(status, gin.H{"error": msg})
}

// named gives a bare ErrNotFound from the store a resource-specific message
func named(err error, resource string) error {
	var reqErr *requestError
	if errors.Is(err, ErrNotFound) && !errors.As(err, &reqErr) {
		return notFound(resource)
	}
	return err
}
