// Package parsing turns component sources into normalized templates.
package parsing

import (
	"fmt"
	"strings"

	"github.com/jonathan/framecraft/internal/types"
)

// Failure messages.
const (
	MsgMissingRequiredFiles = "Missing required files (HTML and CSS files are required)"
	MsgMissingDownloadURLs  = "Files must have download URLs"
	MsgNoComponentFile      = "No component file found"
	MsgNoUploadFiles        = "No component or CSS files found"
	MsgNoUploadComponent    = "No component files (.tsx or .jsx) found"
)

// ParseFailure represents a component that could not be located or fetched
type ParseFailure struct {
	Message string
	Cause   error
}

func (e *ParseFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseFailure) Unwrap() error {
	return e.Cause
}

// StructuralInvalid is returned when parsing is attempted on a listing that
// failed structure validation.
type StructuralInvalid struct {
	Result *types.ValidationResult
}

func (e *StructuralInvalid) Error() string {
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return "invalid component structure"
	}
	return fmt.Sprintf("invalid component structure: %s", strings.Join(e.Result.Errors, "; "))
}
