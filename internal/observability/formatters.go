// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintListing outputs a directory listing, directories first.
func (p *Printer) PrintListing(location string, files []types.RemoteFile) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d entries\n\n", len(files)))

	for _, dirsFirst := range []bool{true, false} {
		for _, f := range files {
			if f.IsDir() != dirsFirst {
				continue
			}
			if f.IsDir() {
				sb.WriteString(fmt.Sprintf("  %s/\n", f.Name))
			} else {
				sb.WriteString(fmt.Sprintf("  %s (%d B)\n", f.Name, f.Size))
			}
		}
	}

	p.printBox(location, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs a structure check result.
func (p *Printer) PrintValidation(result *types.ValidationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	status := "✅ valid"
	if !result.Valid {
		status = "❌ invalid"
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	sb.WriteString(fmt.Sprintf("Layout:   %s\n", result.Layout))

	if len(result.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range result.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", e))
		}
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
		}
	}

	p.printBox("COMPONENT STRUCTURE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComponent outputs a human-readable summary of a parsed component.
func (p *Printer) PrintComponent(component *types.ParsedComponent) {
	if component == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", component.Name))
	sb.WriteString(fmt.Sprintf("Category: %s\n", component.Category))
	sb.WriteString(fmt.Sprintf("Layout:   %s\n", component.Layout))
	if component.Description != "" {
		sb.WriteString(fmt.Sprintf("About:    %s\n", component.Description))
	}
	sb.WriteString(fmt.Sprintf("Markup:   %d bytes HTML, %d bytes CSS\n", len(component.HTML), len(component.CSS)))

	if len(component.Variables) > 0 {
		sb.WriteString("\nVariables:\n")
		count := min(len(component.Variables), maxItemsToShow)
		for _, v := range component.Variables[:count] {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", v.Name, v.Label))
		}
		if len(component.Variables) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(component.Variables)-maxItemsToShow))
		}
	}

	p.printBox("PARSED COMPONENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates outputs a template library listing.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTemplates(templates []db.ComponentTemplate) {
	if len(templates) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO TEMPLATES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, t := range templates {
		marker := " "
		if !t.IsPublished {
			marker = "✎"
		}
		sb.WriteString(fmt.Sprintf("%s %s [%s]\n", marker, t.Name, t.Category))
		sb.WriteString(fmt.Sprintf("  /%s, %d fields", t.Slug, len(t.EditableFields)))
		if i < len(templates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("TEMPLATES (%d)", len(templates)), sb.String())
}
