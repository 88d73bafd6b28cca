package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/framecraft/internal/types"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// DuplicateSlugError is returned when a template with the same slug exists.
type DuplicateSlugError struct {
	Slug string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("a template with slug %q already exists", e.Slug)
}

const templateColumns = `id, name, slug, category, description, html_template, css_template, js_template,
	editable_fields, thumbnail_url, is_published, tags, created_at, updated_at`

// CreateTemplate inserts a component template. ID and Slug are filled in when empty.
func (db *DB) CreateTemplate(ctx context.Context, t *ComponentTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	if t.Slug == "" {
		return fmt.Errorf("template name must contain at least one letter or digit")
	}
	if t.Category == "" {
		t.Category = string(types.CategoryOther)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	fields, err := json.Marshal(t.EditableFields)
	if err != nil {
		return fmt.Errorf("failed to marshal editable fields: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO component_templates (id, name, slug, category, description, html_template, css_template,
		                                  js_template, editable_fields, thumbnail_url, is_published, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Slug, t.Category, t.Description, t.HTMLTemplate, t.CSSTemplate,
		t.JSTemplate, fields, t.ThumbnailURL, t.IsPublished, t.Tags,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return &DuplicateSlugError{Slug: t.Slug}
		}
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetTemplateBySlug retrieves a template by slug. Returns nil when absent.
func (db *DB) GetTemplateBySlug(ctx context.Context, slug string) (*ComponentTemplate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM component_templates WHERE slug = $1`,
		slug,
	)
	t, err := scanTemplate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

// ListTemplates retrieves templates with optional filters, newest first
func (db *DB) ListTemplates(ctx context.Context, filters TemplateFilters) ([]ComponentTemplate, error) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT ` + templateColumns + ` FROM component_templates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, filters.Category)
		argNum++
	}
	if filters.PublishedOnly {
		query += " AND is_published = TRUE"
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []ComponentTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func scanTemplate(row pgx.Row) (*ComponentTemplate, error) {
	var t ComponentTemplate
	var fields []byte
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Category, &t.Description, &t.HTMLTemplate, &t.CSSTemplate,
		&t.JSTemplate, &fields, &t.ThumbnailURL, &t.IsPublished, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &t.EditableFields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal editable fields: %w", err)
		}
	}
	return &t, nil
}

// TemplateFromComponent copies the persisted fields of a parsed component.
func TemplateFromComponent(c *types.ParsedComponent) *ComponentTemplate {
	t := &ComponentTemplate{
		Name:           c.Name,
		Slug:           Slugify(c.Name),
		Category:       string(c.Category),
		HTMLTemplate:   c.HTML,
		CSSTemplate:    c.CSS,
		EditableFields: c.Variables,
		Tags:           []string{},
	}
	if c.Description != "" {
		t.Description = &c.Description
	}
	if c.Script != "" {
		t.JSTemplate = &c.Script
	}
	if c.Thumbnail != "" {
		t.ThumbnailURL = &c.Thumbnail
	}
	return t
}
