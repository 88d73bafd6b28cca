package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/jonathan/framecraft/internal/parsing"
	"github.com/jonathan/framecraft/internal/rendering"
	"github.com/jonathan/framecraft/internal/server/middleware"
	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/validation"
)

// previewStateHeader reports the renderer state after a preview request.
const previewStateHeader = "X-Preview-State"

// handleValidateComponent lists a component folder and checks its structure.
func (s *Server) handleValidateComponent(w http.ResponseWriter, r *http.Request) {
	var req types.ComponentSourceRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		s.failure(w, err)
		return
	}

	files, err := s.upstream.ListDirectory(r.Context(), req.Owner, req.Repo, req.Path, req.Branch)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, validation.Validate(files))
}

// handleParseComponent validates a component folder and, when valid, parses it.
// An invalid structure is answered with 422 and the validation result.
func (s *Server) handleParseComponent(w http.ResponseWriter, r *http.Request) {
	var req types.ComponentSourceRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		s.failure(w, err)
		return
	}

	parser := parsing.NewParser(s.upstream.Repo(req.Owner, req.Repo, req.Branch))
	component, result, err := parser.ParsePath(r.Context(), req.Path)
	if err != nil {
		var invalid *parsing.StructuralInvalid
		if errors.As(err, &invalid) {
			s.jsonResponse(w, http.StatusUnprocessableEntity, invalid.Result)
			return
		}
		s.failure(w, err)
		return
	}

	if session, ok := middleware.SessionFrom(r.Context()); ok {
		log.Printf("[PARSER] %s parsed %s/%s/%s as %s (%s)", session.Username, req.Owner, req.Repo, req.Path, component.Name, component.Layout)
	}
	s.jsonResponse(w, http.StatusOK, types.ParseResponse{Component: component, Validation: result})
}

// handleUploadComponent parses a folder uploaded as multipart "files".
func (s *Server) handleUploadComponent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.failure(w, &ErrValidation{Field: "files", Message: "expected a multipart upload"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.failure(w, &ErrValidation{Field: "files", Message: "required"})
		return
	}

	files := make([]parsing.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > parsing.MaxUploadFileSize {
			log.Printf("[PARSER] Skipping %s: %d bytes exceeds upload limit", header.Filename, header.Size)
			continue
		}
		f, err := header.Open()
		if err != nil {
			s.failure(w, err)
			return
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			s.failure(w, err)
			return
		}
		name := strings.ReplaceAll(header.Filename, "\\", "/")
		files = append(files, parsing.UploadedFile{
			Path:    name,
			Name:    path.Base(name),
			Content: string(content),
		})
	}

	component, err := parsing.ParseUploaded(files)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ParseResponse{Component: component})
}

// handlePreview renders a static preview document.
// With ?frame=1 the document is returned inside a sandboxed iframe element.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		s.failure(w, err)
		return
	}

	document, state, err := s.renderStatic(req.HTML, req.CSS, req.Bindings)
	if err != nil {
		s.failure(w, err)
		return
	}
	w.Header().Set(previewStateHeader, string(state))
	htmlResponse(w, framed(r, document))
}

// handleDynamicPreview renders a dynamic preview document for component source.
func (s *Server) handleDynamicPreview(w http.ResponseWriter, r *http.Request) {
	var req types.DynamicPreviewRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		s.failure(w, err)
		return
	}

	surface := &rendering.BufferSurface{}
	renderer, err := rendering.NewDynamicRenderer(surface, s.preview...)
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := renderer.Render(req.Source, req.CSS); err != nil {
		s.failure(w, err)
		return
	}

	w.Header().Set(previewStateHeader, string(renderer.State()))
	htmlResponse(w, framed(r, surface.Document()))
}

// handleThumbnail captures the static preview as a PNG in headless Chrome.
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if !s.useBrowser {
		s.failure(w, &ErrSnapshotsDisabled{})
		return
	}

	var req types.PreviewRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		s.failure(w, err)
		return
	}

	png, err := s.snapshot(r.Context(), req.HTML, req.CSS, req.Bindings, nil)
	if err != nil {
		s.failure(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// renderStatic runs a static renderer against an in-memory surface.
func (s *Server) renderStatic(html, css string, bindings types.Bindings) (string, rendering.StaticState, error) {
	surface := &rendering.BufferSurface{}
	renderer, err := rendering.NewStaticRenderer(surface, s.preview...)
	if err != nil {
		return "", "", err
	}
	if err := renderer.Render(html, css, bindings); err != nil {
		return "", "", err
	}
	return surface.Document(), renderer.State(), nil
}

func framed(r *http.Request, document string) string {
	if r.URL.Query().Get("frame") == "1" {
		return rendering.Frame(document)
	}
	return document
}

func htmlResponse(w http.ResponseWriter, document string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, document)
}
