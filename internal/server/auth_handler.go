package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/server/middleware"
	"github.com/jonathan/framecraft/internal/types"
)

// AuthHandler handles admin login.
type AuthHandler struct {
	admin      *config.AdminConfig
	jwtService *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(admin *config.AdminConfig, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		admin:      admin,
		jwtService: jwtService,
	}
}

// Login verifies the admin credentials and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.AdminLoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": MsgInvalidBody})
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationError(err).Error()})
		return
	}

	if h.admin == nil || !h.admin.Authenticate(req.Username, req.Password) {
		log.Printf("[AUTH] Failed admin login from %s", r.RemoteAddr)
		err := &ErrInvalidCredentials{}
		writeJSON(w, HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(req.Username)
	if err != nil {
		log.Printf("[AUTH] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, types.AdminLoginResponse{
		Username:  req.Username,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Session echoes the session carried by the request token.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":   session.Username,
		"expires_at": session.ExpiresAt,
	})
}

// validationError converts validator errors into an ErrValidation for the
// first failing field.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: strings.ToLower(ve.Field()), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
