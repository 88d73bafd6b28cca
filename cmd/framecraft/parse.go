package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/observability"
	"github.com/jonathan/framecraft/internal/parsing"
	"github.com/jonathan/framecraft/internal/types"
)

var (
	parseDir     string
	parseOutput  string
	parseSave    bool
	parsePublish bool
	parseDBURL   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [repo]",
	Short: "Parse a component folder into a template",
	Long: `Parse a component folder into template JSON (name, category, html, css,
variables). A repository folder (<repo> --path) is validated first and parsed
with the static or framework strategy; a local folder (--dir) is parsed like
an upload.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	addSourceFlags(parseCmd)
	parseCmd.Flags().StringVarP(&parseDir, "dir", "d", "", "Local component folder (instead of <repo>)")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Store the parsed component in the template library")
	parseCmd.Flags().BoolVar(&parsePublish, "publish", false, "Publish the saved template (with --save)")
	parseCmd.Flags().StringVar(&parseDBURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		component *types.ParsedComponent
		err       error
	)
	switch {
	case parseDir != "" && len(args) > 0:
		return fmt.Errorf("cannot use --dir with a repository argument")
	case parseDir != "":
		component, err = parseLocal(parseDir)
	case len(args) == 1:
		component, err = parseRemote(cmd, args[0])
	default:
		return fmt.Errorf("must provide either a repository or --dir")
	}
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintComponent(component)
	}
	if parseSave {
		if err := saveComponent(cmd, component); err != nil {
			return err
		}
	}
	return writeJSON(cmd, parseOutput, component)
}

// saveComponent stores a parsed component as a library template.
func saveComponent(cmd *cobra.Command, component *types.ParsedComponent) error {
	cfg, err := resolveConfig(config.Config{DatabaseURL: parseDBURL})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL environment variable or use --db-url flag)")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	tmpl := db.TemplateFromComponent(component)
	tmpl.IsPublished = parsePublish
	if err := database.CreateTemplate(ctx, tmpl); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved: /%s\n", tmpl.Slug)
	return nil
}

func parseLocal(dir string) (*types.ParsedComponent, error) {
	files, err := parsing.LoadDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	component, err := parsing.ParseUploaded(files)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", dir, err)
	}
	return component, nil
}

func parseRemote(cmd *cobra.Command, arg string) (*types.ParsedComponent, error) {
	cfg, repo, err := sourceLocation(arg)
	if err != nil {
		return nil, err
	}

	parser := parsing.NewParser(newSourceClient(cfg).Repo(repo.Owner, repo.Repo, repo.Branch))
	component, result, err := parser.ParsePath(context.Background(), repo.Path)
	if err != nil {
		var invalid *parsing.StructuralInvalid
		if errors.As(err, &invalid) && verbose {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintValidation(invalid.Result)
		}
		return nil, fmt.Errorf("failed to parse %s/%s: %w", repo, repo.Path, err)
	}
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintValidation(result)
	}
	return component, nil
}
