package rendering

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"time"
)

// DynamicState is the lifecycle of a dynamic preview.
type DynamicState string

const (
	DynamicIdle              DynamicState = "idle"
	DynamicWaitingForRuntime DynamicState = "waiting_for_runtime"
	DynamicCompiling         DynamicState = "compiling"
	DynamicRendered          DynamicState = "rendered"
	DynamicErrored           DynamicState = "errored"
)

var (
	importPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^[ \t]*import\b[^;'"]*?\bfrom\s*['"][^'"]*['"][ \t]*;?[ \t]*$`),
		regexp.MustCompile(`(?m)^[ \t]*import\s*['"][^'"]*['"][ \t]*;?[ \t]*$`),
	}
	exportDefaultName = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+[A-Za-z_$][\w$]*[ \t]*;?[ \t]*$`)
	exportList        = regexp.MustCompile(`(?m)^[ \t]*export\s*\{[^}]*\}[ \t]*;?[ \t]*$`)
	exportKeyword     = regexp.MustCompile(`(?m)^([ \t]*)export\s+(?:default\s+)?(function|const|let|var|class|async\s+function)\b`)
)

// componentPatterns locate the component identifier, most general first:
// a capitalized top-level function or function-valued const with a body,
// then a plain function declaration, then an arrow-function const.
var componentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(?:async\s+)?(?:function\s+([A-Z][\w$]*)\s*\(|const\s+([A-Z][\w$]*)\s*(?::[^=\n]+)?=\s*(?:async\s*)?(?:function\b[^\n(]*)?\()[^\n]*\{`),
	regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`),
	regexp.MustCompile(`\bconst\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s*)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*(?::[^=]+)?=>`),
}

// StripModuleSyntax removes import statements and export keywords so the
// source can be evaluated as a plain function body.
func StripModuleSyntax(source string) string {
	for _, pattern := range importPatterns {
		source = pattern.ReplaceAllString(source, "")
	}
	source = exportDefaultName.ReplaceAllString(source, "")
	source = exportList.ReplaceAllString(source, "")
	source = exportKeyword.ReplaceAllString(source, "$1$2")
	return strings.TrimSpace(source)
}

// FindComponentName returns the component identifier declared by stripped
// source, trying componentPatterns in order.
func FindComponentName(source string) (string, bool) {
	for _, pattern := range componentPatterns {
		m := pattern.FindStringSubmatch(source)
		for _, group := range m[min(1, len(m)):] {
			if group != "" {
				return group, true
			}
		}
	}
	return "", false
}

// Report is the state a dynamic preview publishes as window.__framecraft and
// posts to its parent window.
type Report struct {
	State    DynamicState `json:"state"`
	Error    *ReportError `json:"error"`
	Attempts int          `json:"attempts,omitempty"`
	// Text is the visible text of the mounted component, filled by Observe.
	Text string `json:"-"`
}

// ReportError is the diagnostic shown in the preview's error panel.
type ReportError struct {
	Kind    string `json:"kind"` // "runtime" or "compile"
	Title   string `json:"title"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

type panelData struct {
	Kind    string
	Title   string
	Message string
	Excerpt string
	Stack   string
}

type dynamicDocument struct {
	BaseStyles          string
	CSS                 string
	Runtime             Runtime
	Source              string
	ComponentName       string
	PollInterval        int64
	MaxAttempts         int
	MessageType         string
	RenderErrorTitle    string
	RuntimeErrorTitle   string
	RuntimeErrorMessage string
	Failure             *panelData
}

// DynamicRenderer executes framework component source inside a surface
// that loads the runtime libraries by reference.
//
// The compiled component runs in the surface's own script context: it is
// isolated from the host's state, not from network or DOM access within
// the sandboxed surface.
type DynamicRenderer struct {
	cfg       config
	templates *template.Template
	surface   Surface

	mu    sync.Mutex
	state DynamicState
	err   error
}

// NewDynamicRenderer creates a renderer writing to surface.
func NewDynamicRenderer(surface Surface, options ...Option) (*DynamicRenderer, error) {
	cfg := newConfig(options)
	tmpl, err := cfg.templates()
	if err != nil {
		return nil, err
	}
	return &DynamicRenderer{
		cfg:       cfg,
		templates: tmpl,
		surface:   surface,
		state:     DynamicIdle,
	}, nil
}

// State returns the current lifecycle state.
func (r *DynamicRenderer) State() DynamicState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the failure behind DynamicErrored, or nil.
func (r *DynamicRenderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Timeout is the readiness ceiling: attempts times interval.
func (r *DynamicRenderer) Timeout() time.Duration {
	return time.Duration(r.cfg.maxAttempts) * r.cfg.pollInterval
}

// Document builds the preview document for source. When no component can be
// located the returned document carries the parsing error panel and the
// *CompileError is returned alongside it.
func (r *DynamicRenderer) Document(source, css string) (string, error) {
	stripped := StripModuleSyntax(source)
	data := dynamicDocument{
		BaseStyles:          r.cfg.baseStyles,
		CSS:                 EscapeStyle(css),
		Runtime:             r.cfg.runtime,
		Source:              stripped,
		PollInterval:        r.cfg.pollInterval.Milliseconds(),
		MaxAttempts:         r.cfg.maxAttempts,
		MessageType:         MessageType,
		RenderErrorTitle:    TitleRenderError,
		RuntimeErrorTitle:   TitleRuntimeError,
		RuntimeErrorMessage: fmt.Sprintf("%s within %s", MsgRuntimeNotLoaded, r.Timeout()),
	}

	var failure *CompileError
	name, ok := FindComponentName(stripped)
	if ok {
		data.ComponentName = name
	} else {
		failure = &CompileError{
			Title:   TitleParseError,
			Message: MsgNoComponentFunction,
			Excerpt: Excerpt(stripped, r.cfg.excerptRunes),
		}
		data.Failure = &panelData{
			Kind:    "compile",
			Title:   failure.Title,
			Message: failure.Message,
			Excerpt: failure.Excerpt,
		}
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, dynamicTemplateName, data); err != nil {
		return "", &TemplateError{Message: "failed to execute dynamic template", Cause: err}
	}
	if failure != nil {
		return buf.String(), failure
	}
	return buf.String(), nil
}

// Render writes the document for source to the surface. A source without a
// locatable component moves straight to DynamicErrored; otherwise the
// renderer waits for the surface to report the runtime as ready.
func (r *DynamicRenderer) Render(source, css string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, docErr := r.Document(source, css)
	var compileErr *CompileError
	if docErr != nil && !errors.As(docErr, &compileErr) {
		r.state, r.err = DynamicErrored, docErr
		return docErr
	}

	if r.surface != nil {
		if err := r.surface.Write(document); err != nil {
			if !errors.Is(err, ErrSurfaceUnavailable) {
				r.state, r.err = DynamicErrored, err
				return &RenderError{Message: "failed to write preview", Cause: err}
			}
			log.Printf("[PREVIEW] Surface not mounted, skipping dynamic render")
		}
	}

	if compileErr != nil {
		r.state, r.err = DynamicErrored, compileErr
		return nil
	}
	r.state, r.err = DynamicWaitingForRuntime, nil
	return nil
}

// Apply advances the state machine from a report published by the surface.
// Reports that would move backwards are ignored.
func (r *DynamicRenderer) Apply(report *Report) {
	if report == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !canTransition(r.state, report.State) {
		return
	}
	r.state = report.State
	r.err = nil
	if report.State != DynamicErrored {
		return
	}
	if report.Error != nil && report.Error.Kind == "runtime" {
		r.err = &RuntimeLoadTimeout{Attempts: r.cfg.maxAttempts, Interval: r.cfg.pollInterval}
		return
	}
	e := &CompileError{Title: TitleRenderError}
	if report.Error != nil {
		e.Title = report.Error.Title
		e.Message = report.Error.Message
		e.Stack = report.Error.Stack
	}
	r.err = e
}

var transitions = map[DynamicState][]DynamicState{
	DynamicIdle:              {DynamicWaitingForRuntime, DynamicErrored},
	DynamicWaitingForRuntime: {DynamicCompiling, DynamicRendered, DynamicErrored},
	DynamicCompiling:         {DynamicRendered, DynamicErrored},
}

func canTransition(from, to DynamicState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
