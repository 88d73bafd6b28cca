package types

import "github.com/go-playground/validator/v10"

// BrowseRequest is the proxy listing request body.
type BrowseRequest struct {
	Owner  string `json:"owner" validate:"required"`
	Repo   string `json:"repo" validate:"required"`
	Path   string `json:"path,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// BrowseResponse is the proxy listing response body.
type BrowseResponse struct {
	Success bool         `json:"success"`
	Files   []RemoteFile `json:"files"`
}

// ContentRequest is the proxy content request body.
type ContentRequest struct {
	URL string `json:"url" validate:"required"`
}

// ContentResponse is the proxy content response body.
type ContentResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// ComponentSourceRequest identifies a component folder inside a repository.
type ComponentSourceRequest struct {
	Owner  string `json:"owner" validate:"required"`
	Repo   string `json:"repo" validate:"required"`
	Path   string `json:"path,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// ParseResponse is returned by the parse endpoints.
type ParseResponse struct {
	Component  *ParsedComponent  `json:"component"`
	Validation *ValidationResult `json:"validation,omitempty"`
}

// PreviewRequest asks for a static preview document.
type PreviewRequest struct {
	HTML     string   `json:"html"`
	CSS      string   `json:"css"`
	Bindings Bindings `json:"bindings,omitempty"`
}

// DynamicPreviewRequest asks for a dynamic preview document.
type DynamicPreviewRequest struct {
	Source string `json:"source" validate:"required"`
	CSS    string `json:"css"`
}

// TemplatePreviewRequest overrides a stored template's default bindings.
type TemplatePreviewRequest struct {
	Bindings Bindings `json:"bindings,omitempty"`
}

// CreateTemplateRequest stores a parsed or hand-edited component.
type CreateTemplateRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	HTML        string    `json:"html" validate:"required"`
	CSS         string    `json:"css"`
	Script      string    `json:"script,omitempty"`
	Variables   Variables `json:"variables"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Publish     bool      `json:"publish,omitempty"`
}

var requestValidator = validator.New()

// ValidateRequest validates any request struct carrying validate tags.
func ValidateRequest(req any) error {
	return requestValidator.Struct(req)
}
