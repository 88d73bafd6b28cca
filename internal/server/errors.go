// Package server provides the framecraft HTTP API: the GitHub proxy, the
// component builder, preview rendering and the template library.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/parsing"
	"github.com/jonathan/framecraft/internal/source"
)

// User-facing messages for the proxy endpoints.
const (
	MsgMethodNotAllowed   = "Method not allowed"
	MsgTokenNotConfigured = "GitHub token not configured on server"
	MsgInternal           = "Internal server error"
	MsgProxyForbidden     = "Rate limit exceeded or access forbidden"
	MsgInvalidBody        = "Invalid request body"
)

// ErrInvalidCredentials indicates invalid admin credentials.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreUnavailable is returned by template endpoints when no database is configured.
type ErrStoreUnavailable struct{}

func (e *ErrStoreUnavailable) Error() string {
	return "template store is not configured"
}

// ErrTemplateNotFound indicates no template has the requested slug.
type ErrTemplateNotFound struct {
	Slug string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template not found: %s", e.Slug)
}

// ErrSnapshotsDisabled is returned by the thumbnail endpoint when headless
// browser use is turned off.
type ErrSnapshotsDisabled struct{}

func (e *ErrSnapshotsDisabled) Error() string {
	return "headless browser snapshots are disabled"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		srcErr     *source.Error
		parseErr   *parsing.ParseFailure
		invalidErr *parsing.StructuralInvalid
		dupErr     *db.DuplicateSlugError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, new(*ErrInvalidCredentials)):
		return http.StatusUnauthorized
	case errors.As(err, new(*ErrValidation)):
		return http.StatusBadRequest
	case errors.As(err, new(*ErrTemplateNotFound)):
		return http.StatusNotFound
	case errors.As(err, new(*ErrStoreUnavailable)), errors.As(err, new(*ErrSnapshotsDisabled)):
		return http.StatusServiceUnavailable
	case errors.As(err, &dupErr):
		return http.StatusConflict
	case errors.As(err, &invalidErr), errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &srcErr):
		return sourceStatus(srcErr)
	default:
		return http.StatusInternalServerError
	}
}

// sourceStatus passes upstream statuses through where the kind allows it.
func sourceStatus(err *source.Error) int {
	switch err.Kind {
	case source.KindNotFound:
		return http.StatusNotFound
	case source.KindForbidden:
		return http.StatusForbidden
	case source.KindInvalidInput:
		return http.StatusBadRequest
	}
	if err.Status >= 400 && err.Status < 600 {
		return err.Status
	}
	if err.Status != 0 {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
