package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/framecraft/internal/types"
)

func newDirect(server *httptest.Server, token string) *DirectTransport {
	transport := NewDirectTransport(token)
	transport.BaseURL = server.URL
	transport.ContentHosts = []string{"127.0.0.1"}
	return transport
}

func TestDirectTransport_ListDirectory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/contents/components/hero", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"name":"index.html","path":"components/hero/index.html","type":"file","size":20,
			 "download_url":"https://raw.githubusercontent.com/acme/widgets/main/components/hero/index.html"},
			{"name":"assets","path":"components/hero/assets","type":"dir","download_url":null}
		]`))
	}))
	defer server.Close()

	client := NewClient(newDirect(server, ""))
	files, err := client.ListDirectory(context.Background(), "acme", "widgets", "/components/hero/", "")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, types.RemoteFile{
		Name:        "index.html",
		Path:        "components/hero/index.html",
		Kind:        types.FileKindFile,
		Size:        20,
		DownloadURL: "https://raw.githubusercontent.com/acme/widgets/main/components/hero/index.html",
	}, files[0])
	assert.True(t, files[1].IsDir())
	assert.Empty(t, files[1].DownloadURL)
}

func TestDirectTransport_RootAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/contents/", r.URL.Path)
		assert.Equal(t, "develop", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(newDirect(server, "").WithToken("secret"))
	files, err := client.ListDirectory(context.Background(), "acme", "widgets", "", "develop")
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NotNil(t, files)
}

func TestDirectTransport_SingleFileListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"config.json","path":"config.json","type":"file","download_url":"https://raw.githubusercontent.com/a/b/main/config.json"}`))
	}))
	defer server.Close()

	files, err := NewClient(newDirect(server, "")).ListDirectory(context.Background(), "a", "b", "config.json", "main")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "config.json", files[0].Name)
}

func TestDirectTransport_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		kind    ErrorKind
		message string
	}{
		{"not found", http.StatusNotFound, KindNotFound, MsgNotFound},
		{"forbidden", http.StatusForbidden, KindForbidden, MsgForbidden},
		{"rate limited", http.StatusTooManyRequests, KindForbidden, MsgForbidden},
		{"server error", http.StatusBadGateway, KindTransport, MsgAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewClient(newDirect(server, "")).ListDirectory(context.Background(), "a", "b", "", "")
			require.Error(t, err)

			var srcErr *Error
			require.ErrorAs(t, err, &srcErr)
			assert.Equal(t, tt.kind, srcErr.Kind)
			assert.Equal(t, tt.message, srcErr.Message)
			assert.Equal(t, tt.status, srcErr.Status)
		})
	}
}

func TestDirectTransport_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	_, err := NewClient(newDirect(server, "")).ListDirectory(context.Background(), "a", "b", "", "")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Contains(t, err.Error(), MsgMalformedReply)
}

func TestClient_RequiresOwnerAndRepo(t *testing.T) {
	client := NewClient(NewDirectTransport(""))
	_, err := client.ListDirectory(context.Background(), "", "widgets", "", "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = client.FetchFileContent(context.Background(), " ")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestClient_BrowseDirectories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"README.md","path":"README.md","type":"file"},
			{"name":"hero","path":"hero","type":"dir"},
			{"name":"footer","path":"footer","type":"dir"}
		]`))
	}))
	defer server.Close()

	dirs, err := NewClient(newDirect(server, "")).BrowseDirectories(context.Background(), "a", "b", "", "")
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, "hero", dirs[0].Name)
	assert.Equal(t, "footer", dirs[1].Name)
}

func TestDirectTransport_Content(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("<div>{{title}}</div>"))
	}))
	defer server.Close()

	repo := NewClient(newDirect(server, "secret")).Repo("a", "b", "main")
	content, err := repo.FetchFileContent(context.Background(), server.URL+"/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<div>{{title}}</div>", content)

	_, err = repo.FetchFileContent(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDirectTransport_ContentRejectsUntrustedHost(t *testing.T) {
	client := NewClient(NewDirectTransport(""))
	_, err := client.FetchFileContent(context.Background(), "https://example.com/index.html")
	require.Error(t, err)

	var srcErr *Error
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, KindInvalidInput, srcErr.Kind)
	assert.Equal(t, MsgInvalidDomain, srcErr.Message)
}
