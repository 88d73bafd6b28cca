package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/observability"
	"github.com/jonathan/framecraft/internal/types"
)

var (
	templatesCategory string
	templatesAll      bool
	templatesLimit    int
	templatesDBURL    string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the template library",
	Long:  "List stored component templates. Drafts are included with --all.",
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesCategory, "category", "", "Only list this category")
	templatesCmd.Flags().BoolVar(&templatesAll, "all", false, "Include unpublished drafts")
	templatesCmd.Flags().IntVar(&templatesLimit, "limit", 0, "Maximum number of templates")
	templatesCmd.Flags().StringVar(&templatesDBURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{DatabaseURL: templatesDBURL})
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

	filters := db.TemplateFilters{
		PublishedOnly: !templatesAll,
		Limit:         templatesLimit,
	}
	if templatesCategory != "" {
		filters.Category = string(types.NormalizeCategory(templatesCategory, types.CategoryOther))
	}

	templates, err := database.ListTemplates(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(templates)
		return nil
	}
	if templates == nil {
		templates = []db.ComponentTemplate{}
	}
	return writeJSON(cmd, "", templates)
}
