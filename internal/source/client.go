package source

import (
	"context"
	"strings"

	"github.com/jonathan/framecraft/internal/types"
)

// DefaultBranch is used when a listing request names no branch.
const DefaultBranch = "main"

// Location addresses a directory (or file) inside a repository.
type Location struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
}

// Transport performs the remote calls. DirectTransport and ProxyTransport are
// interchangeable; callers never branch on which one is in use.
type Transport interface {
	List(ctx context.Context, loc Location) ([]types.RemoteFile, error)
	Content(ctx context.Context, url string) (string, error)
}

// Client is the uniform entry point for listing and fetching component sources.
type Client struct {
	transport Transport
}

// NewClient creates a client over the given transport.
func NewClient(transport Transport) *Client {
	return &Client{transport: transport}
}

// Transport returns the underlying transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// ListDirectory lists path in owner/repo at branch. An empty path is the
// repository root; an empty branch means DefaultBranch. A path naming a file
// yields a single-entry listing.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path, branch string) ([]types.RemoteFile, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: MsgMissingRepo}
	}
	if strings.TrimSpace(branch) == "" {
		branch = DefaultBranch
	}

	files, err := c.transport.List(ctx, Location{
		Owner:  owner,
		Repo:   repo,
		Path:   strings.Trim(path, "/"),
		Branch: branch,
	})
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].IsDir() {
			files[i].DownloadURL = ""
		}
	}
	return files, nil
}

// BrowseDirectories is ListDirectory filtered to directory entries.
func (c *Client) BrowseDirectories(ctx context.Context, owner, repo, path, branch string) ([]types.RemoteFile, error) {
	files, err := c.ListDirectory(ctx, owner, repo, path, branch)
	if err != nil {
		return nil, err
	}
	dirs := make([]types.RemoteFile, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			dirs = append(dirs, f)
		}
	}
	return dirs, nil
}

// FetchFileContent returns the raw text behind a download URL.
func (c *Client) FetchFileContent(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", &Error{Kind: KindInvalidInput, Message: MsgMissingURL}
	}
	return c.transport.Content(ctx, url)
}

// Repo binds the client to one repository and branch.
func (c *Client) Repo(owner, repo, branch string) *RepoSource {
	return &RepoSource{client: c, owner: owner, repo: repo, branch: branch}
}

// RepoSource lists and fetches within a single repository.
type RepoSource struct {
	client *Client
	owner  string
	repo   string
	branch string
}

// ListDirectory lists path within the bound repository.
func (r *RepoSource) ListDirectory(ctx context.Context, path string) ([]types.RemoteFile, error) {
	return r.client.ListDirectory(ctx, r.owner, r.repo, path, r.branch)
}

// FetchFileContent fetches a download URL previously returned by ListDirectory.
func (r *RepoSource) FetchFileContent(ctx context.Context, url string) (string, error) {
	return r.client.FetchFileContent(ctx, url)
}
