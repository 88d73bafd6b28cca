package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/server/middleware"
	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/variables"
)

// handleListTemplates lists templates, optionally filtered by ?category= and
// fuzzy-matched against ?q=. Drafts are only listed for a signed-in admin.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, &ErrStoreUnavailable{})
		return
	}

	filters := db.TemplateFilters{PublishedOnly: !s.hasSession(r)}
	if category := r.URL.Query().Get("category"); category != "" {
		filters.Category = string(types.NormalizeCategory(category, types.CategoryOther))
	}

	templates, err := s.store.ListTemplates(r.Context(), filters)
	if err != nil {
		s.failure(w, err)
		return
	}
	if templates == nil {
		templates = []db.ComponentTemplate{}
	}

	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		templates = searchTemplates(query, templates)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}

// searchTemplates returns the templates matching query, best match first.
func searchTemplates(query string, templates []db.ComponentTemplate) []db.ComponentTemplate {
	searchStrings := make([]string, 0, len(templates))
	for _, t := range templates {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s %s",
			t.Name,
			t.Category,
			strings.Join(t.Tags, " ")))
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]db.ComponentTemplate, 0, len(matches))
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results
}

// handleGetTemplate returns a single template by slug.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.visibleTemplate(r, r.PathValue("slug"))
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, t)
}

// handleCreateTemplate stores a component template. Admin only.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, &ErrStoreUnavailable{})
		return
	}

	var req types.CreateTemplateRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		s.failure(w, err)
		return
	}

	slug := db.Slugify(req.Name)
	if slug == "" {
		s.failure(w, &ErrValidation{Field: "name", Message: "must contain at least one letter or digit"})
		return
	}

	fields := req.Variables
	if len(fields) == 0 {
		fields = variables.Detect(req.HTML)
	}

	t := &db.ComponentTemplate{
		Name:           strings.TrimSpace(req.Name),
		Slug:           slug,
		Category:       string(types.NormalizeCategory(req.Category, types.CategoryOther)),
		HTMLTemplate:   req.HTML,
		CSSTemplate:    req.CSS,
		EditableFields: fields,
		IsPublished:    req.Publish,
		Tags:           []string{},
	}
	if req.Description != "" {
		t.Description = &req.Description
	}
	if req.Script != "" {
		t.JSTemplate = &req.Script
	}
	if req.Thumbnail != "" {
		t.ThumbnailURL = &req.Thumbnail
	}

	if err := s.store.CreateTemplate(r.Context(), t); err != nil {
		s.failure(w, err)
		return
	}

	if session, ok := middleware.SessionFrom(r.Context()); ok {
		log.Printf("[SERVER] Template %q created by %s", t.Slug, session.Username)
	}
	if unbound := variables.Unbound(t.HTMLTemplate, types.BindingsFromLabels(t.EditableFields)); len(unbound) > 0 {
		log.Printf("[SERVER] Template %q has placeholders without editable fields: %s", t.Slug, strings.Join(unbound, ", "))
	}
	s.jsonResponse(w, http.StatusCreated, t)
}

// handleTemplatePreview renders a stored template with its field labels as
// default bindings, overridden by the request bindings.
func (s *Server) handleTemplatePreview(w http.ResponseWriter, r *http.Request) {
	var req types.TemplatePreviewRequest
	if err := s.decodeJSON(w, r, &req, true); err != nil {
		s.failure(w, err)
		return
	}

	t, err := s.visibleTemplate(r, r.PathValue("slug"))
	if err != nil {
		s.failure(w, err)
		return
	}

	bindings := types.BindingsFromLabels(t.EditableFields)
	for name, value := range req.Bindings {
		bindings[name] = value
	}

	document, state, err := s.renderStatic(t.HTMLTemplate, t.CSSTemplate, bindings)
	if err != nil {
		s.failure(w, err)
		return
	}
	w.Header().Set(previewStateHeader, string(state))
	htmlResponse(w, framed(r, document))
}

// visibleTemplate loads slug, hiding drafts from anonymous callers.
func (s *Server) visibleTemplate(r *http.Request, slug string) (*db.ComponentTemplate, error) {
	if s.store == nil {
		return nil, &ErrStoreUnavailable{}
	}
	t, err := s.store.GetTemplateBySlug(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	if t == nil || (!t.IsPublished && !s.hasSession(r)) {
		return nil, &ErrTemplateNotFound{Slug: slug}
	}
	return t, nil
}

// hasSession reports whether the request carries a valid admin token. Unlike
// RequireSession it never rejects the request.
func (s *Server) hasSession(r *http.Request) bool {
	if _, ok := middleware.SessionFrom(r.Context()); ok {
		return true
	}
	token, ok := middleware.BearerToken(r)
	if !ok || s.jwtService == nil {
		return false
	}
	_, err := s.jwtService.ValidateToken(token)
	return err == nil
}
