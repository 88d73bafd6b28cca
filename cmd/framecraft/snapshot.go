package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/rendering"
)

var (
	snapshotHTML     string
	snapshotCSS      string
	snapshotBindings string
	snapshotOutput   string
	snapshotWidth    int64
	snapshotHeight   int64
	snapshotTimeout  time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a static preview as a PNG thumbnail",
	Long:  "Render the static preview in headless Chrome and save a PNG screenshot. Requires a local Chrome or Chromium.",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotHTML, "html", "", "Path to template HTML (required)")
	snapshotCmd.Flags().StringVar(&snapshotCSS, "css", "", "Path to component CSS")
	snapshotCmd.Flags().StringVar(&snapshotBindings, "bindings", "", "Path to a JSON object of placeholder values")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "out", "o", "", "Path to output PNG file (required)")
	snapshotCmd.Flags().Int64Var(&snapshotWidth, "width", 0, "Viewport width in pixels")
	snapshotCmd.Flags().Int64Var(&snapshotHeight, "height", 0, "Viewport height in pixels")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", 0, "Capture timeout")

	if err := snapshotCmd.MarkFlagRequired("html"); err != nil {
		panic(fmt.Sprintf("failed to mark html flag as required: %v", err))
	}
	if err := snapshotCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	html, err := readOptional(snapshotHTML)
	if err != nil {
		return err
	}
	css, err := readOptional(snapshotCSS)
	if err != nil {
		return err
	}
	bindings, err := readBindings(snapshotBindings)
	if err != nil {
		return err
	}

	png, err := rendering.Snapshot(context.Background(), html, css, bindings, &rendering.SnapshotOptions{
		Width:   snapshotWidth,
		Height:  snapshotHeight,
		Timeout: snapshotTimeout,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to capture snapshot: %w", err)
	}
	return writeOutput(cmd, snapshotOutput, png)
}
