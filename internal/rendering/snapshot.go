package rendering

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/framecraft/internal/fetch"
	"github.com/jonathan/framecraft/internal/types"
)

// SnapshotOptions configures headless captures of preview documents.
type SnapshotOptions struct {
	Width   int64
	Height  int64
	Timeout time.Duration
	Verbose bool
}

func (o *SnapshotOptions) browser() *fetch.BrowserOptions {
	opts := fetch.DefaultBrowserOptions()
	if o == nil {
		return opts
	}
	if o.Width > 0 {
		opts.Width = o.Width
	}
	if o.Height > 0 {
		opts.Height = o.Height
	}
	if o.Timeout > 0 {
		opts.Timeout = o.Timeout
	}
	opts.Verbose = o.Verbose
	return opts
}

// Snapshot renders the static preview in headless Chrome and returns a PNG.
func Snapshot(ctx context.Context, html, css string, bindings types.Bindings, opts *SnapshotOptions) ([]byte, error) {
	document, err := StaticDocument(html, css, bindings)
	if err != nil {
		return nil, err
	}
	capture, err := fetch.CaptureDocument(ctx, document, opts.browser())
	if err != nil {
		return nil, &RenderError{Message: "failed to capture thumbnail", Cause: err}
	}
	if len(capture.Screenshot) == 0 {
		return nil, &RenderError{Message: "browser returned an empty screenshot"}
	}
	return capture.Screenshot, nil
}

const (
	settledExpr = `(function () { var r = window.__framecraft; return !!r && (r.state === "rendered" || r.state === "errored"); })()`
	reportExpr  = `JSON.stringify(window.__framecraft || {state: "idle"})`
)

// Observe runs a dynamic document in headless Chrome until it settles,
// applies the final report to the renderer, and returns it.
func (r *DynamicRenderer) Observe(ctx context.Context, document string, opts *SnapshotOptions) (*Report, error) {
	browserOpts := opts.browser()
	// allow the in-page poll to reach its own ceiling first
	if ceiling := r.Timeout() + 5*time.Second; browserOpts.Timeout < ceiling {
		browserOpts.Timeout = ceiling
	}
	browserOpts.WaitExpr = settledExpr
	browserOpts.StateExpr = reportExpr

	r.mu.Lock()
	if r.state == DynamicIdle {
		r.state = DynamicWaitingForRuntime
	}
	r.mu.Unlock()

	capture, err := fetch.CaptureDocument(ctx, document, browserOpts)
	if err != nil {
		return nil, &RenderError{Message: "failed to observe dynamic preview", Cause: err}
	}

	report, err := decodeReport(capture.State)
	if err != nil {
		return nil, err
	}
	if report.State == DynamicRendered {
		if text, err := fetch.ExtractText(capture.HTML, "#root"); err == nil {
			report.Text = text
		}
	}
	r.Apply(report)
	return report, nil
}

func decodeReport(raw string) (*Report, error) {
	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, &RenderError{Message: fmt.Sprintf("malformed preview report %q", raw), Cause: err}
	}
	return &report, nil
}
