// Package fetch - browser.go drives headless Chrome over generated documents.
package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// BrowserOptions configures a headless capture.
type BrowserOptions struct {
	Timeout time.Duration
	Width   int64
	Height  int64
	// WaitExpr is polled until truthy before capturing. Empty waits for body only.
	WaitExpr string
	// StateExpr is evaluated after WaitExpr and returned as Capture.State.
	StateExpr string
	// Screenshot enables a full-page PNG capture.
	Screenshot bool
	Verbose    bool
}

// DefaultBrowserOptions returns a 1280x800 capture with a 30 second timeout.
func DefaultBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Timeout:    30 * time.Second,
		Width:      1280,
		Height:     800,
		Screenshot: true,
	}
}

// Capture is the result of rendering a document in the browser.
type Capture struct {
	HTML       string
	State      string
	Screenshot []byte
}

// CaptureDocument loads document into a blank headless page and captures it.
// Requires Chrome/Chromium to be installed on the system.
func CaptureDocument(ctx context.Context, document string, opts *BrowserOptions) (*Capture, error) {
	if opts == nil {
		opts = DefaultBrowserOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Starting headless browser for %d byte document", len(document))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	capture := &Capture{}
	actions := []chromedp.Action{
		chromedp.EmulateViewport(opts.Width, opts.Height),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady("body"),
	}
	if opts.WaitExpr != "" {
		var ready bool
		actions = append(actions, chromedp.Poll(opts.WaitExpr, &ready, chromedp.WithPollingTimeout(opts.Timeout)))
	}
	if opts.StateExpr != "" {
		actions = append(actions, chromedp.Evaluate(opts.StateExpr, &capture.State))
	}
	actions = append(actions, chromedp.OuterHTML("html", &capture.HTML))
	if opts.Screenshot {
		// quality 100 yields PNG
		actions = append(actions, chromedp.FullScreenshot(&capture.Screenshot, 100))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes, screenshot: %d bytes", len(capture.HTML), len(capture.Screenshot))
	}

	return capture, nil
}
