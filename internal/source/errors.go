// Package source provides read-only access to component sources hosted on GitHub,
// either directly against the REST API or through the framecraft proxy.
package source

import (
	"errors"
	"fmt"
)

// ErrorKind classifies source failures.
type ErrorKind int

const (
	// KindTransport is a generic upstream failure (non-2xx, malformed body, network).
	KindTransport ErrorKind = iota
	// KindNotFound means the repository or path does not exist.
	KindNotFound
	// KindForbidden means the request was rate limited or denied.
	KindForbidden
	// KindInvalidInput means the caller supplied an unusable argument.
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "transport"
	}
}

// User-facing messages.
const (
	MsgNotFound       = "Repository or path not found"
	MsgForbidden      = "Rate limit exceeded or access denied. Try adding a GitHub token."
	MsgAPIError       = "GitHub API error"
	MsgContentFailed  = "Failed to fetch file content"
	MsgInvalidDomain  = "Invalid URL domain"
	MsgMissingRepo    = "Missing required fields: owner and repo"
	MsgMissingURL     = "Missing required field: url"
	MsgMalformedReply = "Malformed response from GitHub"
)

// Error is returned by every Client operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int    // upstream HTTP status, 0 when none
	Path    string // repository path or URL involved
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("source error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("source error: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of a source error, or KindTransport for any other error.
func KindOf(err error) ErrorKind {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Kind
	}
	return KindTransport
}

// IsNotFound reports whether err is a source NotFound error.
func IsNotFound(err error) bool {
	var srcErr *Error
	return errors.As(err, &srcErr) && srcErr.Kind == KindNotFound
}

// IsForbidden reports whether err is a source rate-limit or access error.
func IsForbidden(err error) bool {
	var srcErr *Error
	return errors.As(err, &srcErr) && srcErr.Kind == KindForbidden
}

func errorForStatus(status int, message, path string) *Error {
	switch status {
	case 404:
		return &Error{Kind: KindNotFound, Message: MsgNotFound, Status: status, Path: path}
	case 401, 403, 429:
		return &Error{Kind: KindForbidden, Message: MsgForbidden, Status: status, Path: path}
	case 400:
		return &Error{Kind: KindInvalidInput, Message: message, Status: status, Path: path}
	default:
		return &Error{Kind: KindTransport, Message: message, Status: status, Path: path}
	}
}
