package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/rendering"
)

var (
	previewHTML         string
	previewCSS          string
	previewBindings     string
	previewDynamic      bool
	previewSource       string
	previewOutput       string
	previewFrame        bool
	previewTemplatesDir string
	previewPollInterval time.Duration
	previewMaxAttempts  int
	previewObserve      bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render an isolated preview document",
	Long: `Render a standalone preview document. The static mode substitutes --bindings
into --html and isolates --css; the dynamic mode (--dynamic) wraps component
--source in a document that compiles and mounts it in the browser.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewHTML, "html", "", "Path to template HTML (static mode)")
	previewCmd.Flags().StringVar(&previewCSS, "css", "", "Path to component CSS")
	previewCmd.Flags().StringVar(&previewBindings, "bindings", "", "Path to a JSON object of placeholder values (static mode)")
	previewCmd.Flags().BoolVar(&previewDynamic, "dynamic", false, "Render component source instead of HTML")
	previewCmd.Flags().StringVar(&previewSource, "source", "", "Path to component source (dynamic mode)")
	previewCmd.Flags().StringVarP(&previewOutput, "out", "o", "", "Path to output HTML file (default stdout)")
	previewCmd.Flags().BoolVar(&previewFrame, "frame", false, "Wrap the document in a sandboxed iframe")
	previewCmd.Flags().StringVar(&previewTemplatesDir, "templates", "", "Directory overriding the built-in document templates")
	previewCmd.Flags().DurationVar(&previewPollInterval, "poll-interval", 0, "Runtime readiness poll interval (dynamic mode)")
	previewCmd.Flags().IntVar(&previewMaxAttempts, "max-attempts", 0, "Runtime readiness poll ceiling (dynamic mode)")
	previewCmd.Flags().BoolVar(&previewObserve, "observe", false, "Run the dynamic document in headless Chrome and report its final state")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	var options []rendering.Option
	if previewTemplatesDir != "" {
		options = append(options, rendering.WithTemplatesDir(previewTemplatesDir))
	}
	if previewPollInterval > 0 {
		options = append(options, rendering.WithPollInterval(previewPollInterval))
	}
	if previewMaxAttempts > 0 {
		options = append(options, rendering.WithMaxAttempts(previewMaxAttempts))
	}

	css, err := readOptional(previewCSS)
	if err != nil {
		return err
	}

	surface := &rendering.BufferSurface{}
	var state string
	if previewDynamic {
		if previewSource == "" {
			return fmt.Errorf("--source is required with --dynamic")
		}
		source, err := readOptional(previewSource)
		if err != nil {
			return err
		}
		renderer, err := rendering.NewDynamicRenderer(surface, options...)
		if err != nil {
			return err
		}
		if err := renderer.Render(source, css); err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		if previewObserve && renderer.State() != rendering.DynamicErrored {
			report, err := renderer.Observe(context.Background(), surface.Document(), &rendering.SnapshotOptions{Verbose: verbose})
			if err != nil {
				return fmt.Errorf("failed to observe preview: %w", err)
			}
			if report.Text != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Mounted text: %s\n", report.Text)
			}
		}
		state = string(renderer.State())
		if renderErr := renderer.Err(); renderErr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", renderErr)
		}
	} else {
		if previewHTML == "" {
			return fmt.Errorf("--html is required without --dynamic")
		}
		html, err := readOptional(previewHTML)
		if err != nil {
			return err
		}
		bindings, err := readBindings(previewBindings)
		if err != nil {
			return err
		}
		renderer, err := rendering.NewStaticRenderer(surface, options...)
		if err != nil {
			return err
		}
		if err := renderer.Render(html, css, bindings); err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		state = string(renderer.State())
	}

	document := surface.Document()
	if previewFrame {
		document = rendering.Frame(document)
	}
	if verbose {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Preview state: %s\n", state)
	}
	return writeOutput(cmd, previewOutput, []byte(document))
}
