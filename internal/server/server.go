package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/fetch"
	"github.com/jonathan/framecraft/internal/rendering"
	"github.com/jonathan/framecraft/internal/server/middleware"
	"github.com/jonathan/framecraft/internal/server/ratelimit"
	"github.com/jonathan/framecraft/internal/source"
	"github.com/jonathan/framecraft/internal/types"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 5 << 20

// maxUploadBytes caps multipart folder uploads.
const maxUploadBytes = 32 << 20

// TemplateStore persists component templates. *db.DB satisfies it.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, t *db.ComponentTemplate) error
	GetTemplateBySlug(ctx context.Context, slug string) (*db.ComponentTemplate, error)
	ListTemplates(ctx context.Context, filters db.TemplateFilters) ([]db.ComponentTemplate, error)
}

// SnapshotFunc renders a thumbnail PNG. rendering.Snapshot is the default.
type SnapshotFunc func(ctx context.Context, html, css string, bindings types.Bindings, opts *rendering.SnapshotOptions) ([]byte, error)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	db          *db.DB
	store       TemplateStore
	upstream    *source.Client
	githubToken string
	contentHost []string
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	origins     []string
	preview     []rendering.Option
	useBrowser  bool
	snapshot    SnapshotFunc
	validate    *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port           int
	DatabaseURL    string
	GitHubToken    string // server-side credential for the proxy endpoints
	AllowedOrigins []string
	CacheTTL       time.Duration
	PollInterval   time.Duration
	MaxAttempts    int
	UseBrowser     bool
}

// Deps are the collaborators New builds from the environment. Tests supply
// their own through NewWithDeps.
type Deps struct {
	DB           *db.DB
	Store        TemplateStore
	Upstream     source.Transport
	ContentHosts []string
	Admin        *config.AdminConfig
	JWT          *JWTService
	Limiter      *ratelimit.Limiter
	Snapshot     SnapshotFunc
}

// New creates a new server instance from cfg and the environment.
func New(cfg Config) (*Server, error) {
	var deps Deps

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(context.Background()); err != nil {
			database.Close()
			return nil, err
		}
		deps.DB = database
		deps.Store = database
	} else {
		log.Printf("[SERVER] DATABASE_URL not set, template store and content cache disabled")
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	deps.Admin, err = config.NewAdminConfig(passwordConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	deps.JWT = NewJWTService(jwtConfig)

	var cache fetch.Cache
	if deps.DB != nil {
		cache = deps.DB
	}
	direct := source.NewDirectTransport(cfg.GitHubToken)
	direct.Fetcher = fetch.NewCachedFetcher(cache, &fetch.CachedFetcherConfig{
		CacheTTL: cfg.CacheTTL,
		Fetcher:  fetch.NewHTTPFetcher(&fetch.Options{AllowedHosts: fetch.TrustedContentHosts}),
	})
	deps.Upstream = direct
	deps.Limiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	return NewWithDeps(cfg, deps), nil
}

// NewWithDeps wires a server from explicit collaborators.
func NewWithDeps(cfg Config, deps Deps) *Server {
	s := &Server{
		db:          deps.DB,
		store:       deps.Store,
		githubToken: cfg.GitHubToken,
		contentHost: deps.ContentHosts,
		rateLimiter: deps.Limiter,
		jwtService:  deps.JWT,
		origins:     cfg.AllowedOrigins,
		useBrowser:  cfg.UseBrowser,
		snapshot:    deps.Snapshot,
		validate:    validator.New(),
	}
	if len(s.contentHost) == 0 {
		s.contentHost = fetch.TrustedContentHosts
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	if s.snapshot == nil {
		s.snapshot = rendering.Snapshot
	}
	upstream := deps.Upstream
	if upstream == nil {
		upstream = source.NewDirectTransport(cfg.GitHubToken)
	}
	s.upstream = source.NewClient(upstream)

	if cfg.PollInterval > 0 {
		s.preview = append(s.preview, rendering.WithPollInterval(cfg.PollInterval))
	}
	if cfg.MaxAttempts > 0 {
		s.preview = append(s.preview, rendering.WithMaxAttempts(cfg.MaxAttempts))
	}

	s.authHandler = NewAuthHandler(deps.Admin, deps.JWT)
	admin := middleware.RequireSession(deps.JWT.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// GitHub proxy
	mux.HandleFunc("POST /browse", s.handleBrowse)
	mux.HandleFunc("POST /content", s.handleContent)

	// Admin session
	mux.HandleFunc("POST /admin/login", s.authHandler.Login)
	mux.Handle("GET /admin/session", admin(http.HandlerFunc(s.authHandler.Session)))

	// Component builder
	mux.Handle("POST /components/validate", admin(http.HandlerFunc(s.handleValidateComponent)))
	mux.Handle("POST /components/parse", admin(http.HandlerFunc(s.handleParseComponent)))
	mux.Handle("POST /components/upload", admin(http.HandlerFunc(s.handleUploadComponent)))
	mux.Handle("POST /components/preview", admin(http.HandlerFunc(s.handlePreview)))
	mux.Handle("POST /components/preview/dynamic", admin(http.HandlerFunc(s.handleDynamicPreview)))
	mux.Handle("POST /components/thumbnail", admin(http.HandlerFunc(s.handleThumbnail)))

	// Template library
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{slug}", s.handleGetTemplate)
	mux.Handle("POST /templates", admin(http.HandlerFunc(s.handleCreateTemplate)))
	mux.HandleFunc("POST /templates/{slug}/preview", s.handleTemplatePreview)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // thumbnails drive a headless browser
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[SERVER] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[SERVER] Server error: %v", err)
		}
	}()

	<-stop
	log.Println("[SERVER] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("[SERVER] Stopped")
	return nil
}

// Close releases the rate limiter and database pool.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// withCORS adds CORS headers. An empty origin list allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.origins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", previewStateHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"template_store": s.store != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// failure writes err with the status chosen by HTTPStatus.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[SERVER] %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON decodes and validates a request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !(allowEmpty && errors.Is(err, io.EOF)) {
		return &ErrValidation{Field: "body", Message: MsgInvalidBody}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[SERVER] Error encoding JSON response: %v", err)
	}
}

// extractClientID extracts the client identifier (the remote IP) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d", info.Limit, info.Remaining)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
