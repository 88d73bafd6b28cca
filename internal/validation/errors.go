// Package validation classifies component source listings before any file content is fetched.
package validation

import "fmt"

// FileReadError represents an error reading a local component directory
type FileReadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("file read error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("file read error: %s: %s", e.Path, e.Message)
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}
