package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/framecraft/internal/fetch"
	"github.com/jonathan/framecraft/internal/source"
	"github.com/jonathan/framecraft/internal/types"
)

// handleBrowse lists a repository directory with the server-side token.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	if s.githubToken == "" {
		log.Printf("[GitHub Proxy] GITHUB_TOKEN not configured")
		s.errorResponse(w, http.StatusInternalServerError, MsgTokenNotConfigured)
		return
	}

	var req types.BrowseRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		var verr *ErrValidation
		if errors.As(err, &verr) && verr.Field != "body" {
			s.errorResponse(w, http.StatusBadRequest, source.MsgMissingRepo)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	log.Printf("[GitHub Proxy] Listing %s/%s/%s@%s", req.Owner, req.Repo, req.Path, req.Branch)
	files, err := s.upstream.ListDirectory(r.Context(), req.Owner, req.Repo, req.Path, req.Branch)
	if err != nil {
		s.proxyError(w, err, source.MsgAPIError, fmt.Sprintf("%s/%s/%s", req.Owner, req.Repo, req.Path))
		return
	}

	log.Printf("[GitHub Proxy] Success: %d items found", len(files))
	s.jsonResponse(w, http.StatusOK, types.BrowseResponse{Success: true, Files: files})
}

// handleContent returns the raw text behind a trusted content URL.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	if s.githubToken == "" {
		log.Printf("[GitHub Proxy] GITHUB_TOKEN not configured")
		s.errorResponse(w, http.StatusInternalServerError, MsgTokenNotConfigured)
		return
	}

	var req types.ContentRequest
	if err := s.decodeJSON(w, r, &req, false); err != nil {
		var verr *ErrValidation
		if errors.As(err, &verr) && verr.Field != "body" {
			s.errorResponse(w, http.StatusBadRequest, source.MsgMissingURL)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	if !fetch.HostAllowed(strings.TrimSpace(req.URL), s.contentHost) {
		s.errorResponse(w, http.StatusBadRequest, source.MsgInvalidDomain)
		return
	}

	log.Printf("[File Content Proxy] Fetching: %s", req.URL)
	content, err := s.upstream.FetchFileContent(r.Context(), req.URL)
	if err != nil {
		s.proxyError(w, err, source.MsgContentFailed, req.URL)
		return
	}

	log.Printf("[File Content Proxy] Success: %d bytes", len(content))
	s.jsonResponse(w, http.StatusOK, types.ContentResponse{Success: true, Content: content})
}

// proxyError translates an upstream failure into the proxy error body.
func (s *Server) proxyError(w http.ResponseWriter, err error, fallback, details string) {
	log.Printf("[GitHub Proxy] Error: %v", err)

	var srcErr *source.Error
	if !errors.As(err, &srcErr) {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   MsgInternal,
			"message": err.Error(),
		})
		return
	}

	body := map[string]any{"details": details}
	switch srcErr.Kind {
	case source.KindNotFound:
		body["error"] = source.MsgNotFound
	case source.KindForbidden:
		body["error"] = MsgProxyForbidden
	case source.KindInvalidInput:
		body["error"] = srcErr.Message
	default:
		body["error"] = fallback
		if srcErr.Status != 0 {
			body["status"] = srcErr.Status
		}
	}
	s.jsonResponse(w, HTTPStatus(err), body)
}
