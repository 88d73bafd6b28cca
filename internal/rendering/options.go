package rendering

import (
	"io/fs"
	"os"
	"text/template"
	"time"
)

// Runtime lists the externally loaded scripts of a dynamic preview.
// Libraries are referenced by URL, never bundled.
type Runtime struct {
	UI     string // UI-rendering library, exposes window.React
	DOM    string // DOM binding, exposes window.ReactDOM
	Motion string // animation library, exposes window.Motion
	// StyleEngine is a utility-class CSS engine. Optional.
	StyleEngine string
	// Transformer compiles JSX/TypeScript in the page, exposes window.Babel. Optional.
	Transformer string
}

// DefaultRuntime references the public CDN builds.
var DefaultRuntime = Runtime{
	UI:          "https://unpkg.com/react@18/umd/react.production.min.js",
	DOM:         "https://unpkg.com/react-dom@18/umd/react-dom.production.min.js",
	Motion:      "https://unpkg.com/framer-motion@11/dist/framer-motion.js",
	StyleEngine: "https://cdn.tailwindcss.com",
	Transformer: "https://unpkg.com/@babel/standalone@7/babel.min.js",
}

// Defaults for the runtime readiness poll: 100 attempts every 100ms.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultMaxAttempts  = 100
	DefaultExcerptRunes = 200
)

// DefaultBaseStyles is the reset applied ahead of component CSS.
const DefaultBaseStyles = `body { margin: 0; font-family: sans-serif; -webkit-font-smoothing: antialiased; }
* { box-sizing: border-box; }`

// MessageType tags the state reports a preview posts to its parent window.
const MessageType = "framecraft:preview"

// Option customises a renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	runtime      Runtime
	pollInterval time.Duration
	maxAttempts  int
	baseStyles   string
	excerptRunes int
}

func newConfig(options []Option) config {
	cfg := config{
		runtime:      DefaultRuntime,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
		baseStyles:   DefaultBaseStyles,
		excerptRunes: DefaultExcerptRunes,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// templates returns the configured template set.
func (c config) templates() (*template.Template, error) {
	if c.templateFS == nil {
		return defaultTemplates, nil
	}
	return parseTemplates(c.templateFS)
}

// WithRuntime replaces the runtime library references.
func WithRuntime(runtime Runtime) Option {
	return func(cfg *config) {
		cfg.runtime = runtime
	}
}

// WithPollInterval sets the delay between runtime readiness checks.
func WithPollInterval(interval time.Duration) Option {
	return func(cfg *config) {
		if interval > 0 {
			cfg.pollInterval = interval
		}
	}
}

// WithMaxAttempts bounds the number of runtime readiness checks.
func WithMaxAttempts(attempts int) Option {
	return func(cfg *config) {
		if attempts > 0 {
			cfg.maxAttempts = attempts
		}
	}
}

// WithBaseStyles replaces the reset stylesheet.
func WithBaseStyles(css string) Option {
	return func(cfg *config) {
		cfg.baseStyles = css
	}
}

// WithExcerptLength sets how much source a parsing error panel quotes.
func WithExcerptLength(runes int) Option {
	return func(cfg *config) {
		if runes > 0 {
			cfg.excerptRunes = runes
		}
	}
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/static.html.tmpl, templates/dynamic.html.tmpl and a "panel" definition.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from path/templates on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}
