package rendering

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"text/template"

	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/variables"
)

// StaticState is the lifecycle of a static preview.
type StaticState string

const (
	StaticIdle      StaticState = "idle"
	StaticRendering StaticState = "rendering"
	StaticRendered  StaticState = "rendered"
)

type staticDocument struct {
	BaseStyles string
	CSS        string
	HTML       string
}

// StaticRenderer renders template HTML with bindings into a surface. Each
// render fully replaces the surface content.
type StaticRenderer struct {
	cfg       config
	templates *template.Template
	surface   Surface

	mu    sync.Mutex
	state StaticState
}

// NewStaticRenderer creates a renderer writing to surface. A nil surface
// turns renders into no-ops.
func NewStaticRenderer(surface Surface, options ...Option) (*StaticRenderer, error) {
	cfg := newConfig(options)
	tmpl, err := cfg.templates()
	if err != nil {
		return nil, err
	}
	return &StaticRenderer{
		cfg:       cfg,
		templates: tmpl,
		surface:   surface,
		state:     StaticIdle,
	}, nil
}

// State returns the current lifecycle state.
func (r *StaticRenderer) State() StaticState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Document builds the isolated preview document: reset styles, component CSS,
// then the substituted HTML as body content.
func (r *StaticRenderer) Document(html, css string, bindings types.Bindings) (string, error) {
	var buf bytes.Buffer
	err := r.templates.ExecuteTemplate(&buf, staticTemplateName, staticDocument{
		BaseStyles: r.cfg.baseStyles,
		CSS:        EscapeStyle(css),
		HTML:       variables.Substitute(html, bindings),
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute static template", Cause: err}
	}
	return buf.String(), nil
}

// Render rebuilds the document and writes it to the surface. An unavailable
// surface is not an error.
func (r *StaticRenderer) Render(html, css string, bindings types.Bindings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StaticRendering
	document, err := r.Document(html, css, bindings)
	if err != nil {
		r.state = StaticIdle
		return err
	}

	if r.surface == nil {
		r.state = StaticIdle
		return nil
	}
	if err := r.surface.Write(document); err != nil {
		r.state = StaticIdle
		if errors.Is(err, ErrSurfaceUnavailable) {
			log.Printf("[PREVIEW] Surface not mounted, skipping render")
			return nil
		}
		return &RenderError{Message: "failed to write preview", Cause: err}
	}
	r.state = StaticRendered
	return nil
}

// StaticDocument renders a preview document with the default configuration.
func StaticDocument(html, css string, bindings types.Bindings) (string, error) {
	r, err := NewStaticRenderer(nil)
	if err != nil {
		return "", err
	}
	return r.Document(html, css, bindings)
}
