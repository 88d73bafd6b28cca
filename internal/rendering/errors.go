// Package rendering builds isolated preview documents for component templates.
package rendering

import (
	"fmt"
	"time"
)

// Panel titles shown inside the preview surface.
const (
	TitleParseError   = "Component Parsing Error"
	TitleRenderError  = "Component Render Error"
	TitleRuntimeError = "Runtime Load Error"
)

// Diagnostic messages.
const (
	MsgNoComponentFunction = "Could not find component function"
	MsgRuntimeNotLoaded    = "Runtime libraries did not load"
)

// TemplateError represents an error parsing or executing a document template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// RuntimeLoadTimeout reports that the preview runtime never became ready.
type RuntimeLoadTimeout struct {
	Attempts int
	Interval time.Duration
}

func (e *RuntimeLoadTimeout) Error() string {
	return fmt.Sprintf("%s after %d attempts (%s)", MsgRuntimeNotLoaded, e.Attempts, time.Duration(e.Attempts)*e.Interval)
}

// CompileError is a component that could not be located, compiled or mounted.
type CompileError struct {
	Title   string
	Message string
	Stack   string
	Excerpt string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}
