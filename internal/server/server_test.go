package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/framecraft/internal/config"
	"github.com/jonathan/framecraft/internal/db"
	"github.com/jonathan/framecraft/internal/parsing"
	"github.com/jonathan/framecraft/internal/rendering"
	"github.com/jonathan/framecraft/internal/server/ratelimit"
	"github.com/jonathan/framecraft/internal/source"
	"github.com/jonathan/framecraft/internal/types"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse-battery"
)

// fakeStore is an in-memory TemplateStore.
type fakeStore struct {
	mu        sync.Mutex
	templates []db.ComponentTemplate
	err       error
}

func (f *fakeStore) CreateTemplate(_ context.Context, t *db.ComponentTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.templates {
		if existing.Slug == t.Slug {
			return &db.DuplicateSlugError{Slug: t.Slug}
		}
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.templates = append(f.templates, *t)
	return nil
}

func (f *fakeStore) GetTemplateBySlug(_ context.Context, slug string) (*db.ComponentTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.templates {
		if f.templates[i].Slug == slug {
			t := f.templates[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListTemplates(_ context.Context, filters db.TemplateFilters) ([]db.ComponentTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []db.ComponentTemplate
	for _, t := range f.templates {
		if filters.Category != "" && t.Category != filters.Category {
			continue
		}
		if filters.PublishedOnly && !t.IsPublished {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// fakeGitHub serves the contents API under /repos and raw files under /raw.
type fakeGitHub struct {
	*httptest.Server
	listings map[string][]types.RemoteFile // "owner/repo/path" -> listing
	files    map[string]string             // raw path -> content
	statuses map[string]int                // "owner/repo/path" -> forced status
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	gh := &fakeGitHub{
		listings: map[string][]types.RemoteFile{},
		files:    map[string]string{},
		statuses: map[string]int{},
	}
	gh.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/repos/"):
			parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/repos/"), "/", 4)
			key := parts[0] + "/" + parts[1] + "/"
			if len(parts) == 4 {
				key += strings.Trim(parts[3], "/")
			}
			if status, ok := gh.statuses[key]; ok {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"forced"}`))
				return
			}
			listing, ok := gh.listings[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(listing)
		case strings.HasPrefix(r.URL.Path, "/raw/"):
			content, ok := gh.files[strings.TrimPrefix(r.URL.Path, "/raw/")]
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(content))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(gh.Close)
	return gh
}

// addDir registers a directory listing built from files (name -> content).
// Names ending in "/" are directories.
func (gh *fakeGitHub) addDir(owner, repo, dir string, files map[string]string) {
	var listing []types.RemoteFile
	for name, content := range files {
		p := strings.Trim(dir+"/"+name, "/")
		if strings.HasSuffix(name, "/") {
			listing = append(listing, types.RemoteFile{Name: strings.TrimSuffix(name, "/"), Path: strings.TrimSuffix(p, "/"), Kind: types.FileKindDir})
			continue
		}
		gh.files[p] = content
		listing = append(listing, types.RemoteFile{
			Name:        name,
			Path:        p,
			Kind:        types.FileKindFile,
			DownloadURL: gh.URL + "/raw/" + p,
			Size:        int64(len(content)),
		})
	}
	slices.SortFunc(listing, func(a, b types.RemoteFile) int { return strings.Compare(a.Name, b.Name) })
	gh.listings[owner+"/"+repo+"/"+strings.Trim(dir, "/")] = listing
}

type testServerOptions struct {
	token      string
	store      TemplateStore
	limiter    *ratelimit.Limiter
	useBrowser bool
	snapshot   SnapshotFunc
	origins    []string
}

type testServer struct {
	*Server
	gh  *fakeGitHub
	jwt *JWTService
}

func newTestServer(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	gh := newFakeGitHub(t)
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := setupTestJWTService(t, 8)
	direct := source.NewDirectTransport("")
	direct.BaseURL = gh.URL
	direct.HTTPClient = gh.Client()
	direct.ContentHosts = []string{"127.0.0.1"}

	s := NewWithDeps(Config{
		GitHubToken:    opts.token,
		AllowedOrigins: opts.origins,
		UseBrowser:     opts.useBrowser,
	}, Deps{
		Store:        opts.store,
		Upstream:     direct,
		ContentHosts: []string{"127.0.0.1"},
		Admin: &config.AdminConfig{
			Username:     testAdminUser,
			PasswordHash: string(hash),
			Passwords:    &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		},
		JWT:      jwtService,
		Limiter:  opts.limiter,
		Snapshot: opts.snapshot,
	})
	t.Cleanup(s.Close)
	return &testServer{Server: s, gh: gh, jwt: jwtService}
}

func (ts *testServer) token(t *testing.T) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateToken(testAdminUser)
	require.NoError(t, err)
	return token
}

// do sends a request through the full middleware chain.
func (ts *testServer) do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testServerOptions{})

	w := ts.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["template_store"])
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		ts := newTestServer(t, testServerOptions{})
		w := ts.do(t, http.MethodOptions, "/components/preview", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.Equal(t, previewStateHeader, w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("allow list", func(t *testing.T) {
		ts := newTestServer(t, testServerOptions{origins: []string{"https://builder.example.com"}})

		req := httptest.NewRequest(http.MethodOptions, "/templates", nil)
		req.Header.Set("Origin", "https://builder.example.com")
		w := httptest.NewRecorder()
		ts.Handler().ServeHTTP(w, req)
		assert.Equal(t, "https://builder.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodOptions, "/templates", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = httptest.NewRecorder()
		ts.Handler().ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/admin/login", Method: "POST", Limit: 1, Window: time.Hour},
		},
	})
	ts := newTestServer(t, testServerOptions{limiter: limiter})

	creds := types.AdminLoginRequest{Username: testAdminUser, Password: testAdminPassword}
	w := ts.do(t, http.MethodPost, "/admin/login", creds, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(t, http.MethodPost, "/admin/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	w = ts.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "health is never limited")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"validation", &ErrValidation{Field: "name", Message: "required"}, http.StatusBadRequest},
		{"not found", &ErrTemplateNotFound{Slug: "x"}, http.StatusNotFound},
		{"store", &ErrStoreUnavailable{}, http.StatusServiceUnavailable},
		{"snapshots", &ErrSnapshotsDisabled{}, http.StatusServiceUnavailable},
		{"duplicate", &db.DuplicateSlugError{Slug: "x"}, http.StatusConflict},
		{"parse failure", &parsing.ParseFailure{Message: parsing.MsgNoComponentFile}, http.StatusUnprocessableEntity},
		{"structural", &parsing.StructuralInvalid{}, http.StatusUnprocessableEntity},
		{"source not found", &source.Error{Kind: source.KindNotFound}, http.StatusNotFound},
		{"source forbidden", &source.Error{Kind: source.KindForbidden, Status: 429}, http.StatusForbidden},
		{"source input", &source.Error{Kind: source.KindInvalidInput}, http.StatusBadRequest},
		{"source passthrough", &source.Error{Kind: source.KindTransport, Status: 502}, http.StatusBadGateway},
		{"source odd status", &source.Error{Kind: source.KindTransport, Status: 302}, http.StatusBadGateway},
		{"source network", &source.Error{Kind: source.KindTransport}, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", &ErrTemplateNotFound{}), http.StatusNotFound},
		{"render", &rendering.RenderError{Message: "boom"}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
