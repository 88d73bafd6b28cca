package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/framecraft/internal/fetch"
	"github.com/jonathan/framecraft/internal/types"
)

// DefaultAPIBaseURL is the GitHub REST API root.
const DefaultAPIBaseURL = "https://api.github.com"

// DirectTransport calls the GitHub contents API directly.
type DirectTransport struct {
	// BaseURL is the API root; defaults to DefaultAPIBaseURL.
	BaseURL string
	// Token is the optional GitHub token, sent as a bearer credential only when set.
	Token string
	// HTTPClient is the client for API requests.
	HTTPClient *http.Client
	// ContentHosts restricts Content URLs; defaults to fetch.TrustedContentHosts.
	ContentHosts []string
	// Fetcher retrieves raw content; defaults to an HTTP fetcher carrying Token.
	Fetcher fetch.Fetcher
}

// NewDirectTransport creates a direct transport with an optional token.
func NewDirectTransport(token string) *DirectTransport {
	return &DirectTransport{
		BaseURL: DefaultAPIBaseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a copy of the transport using token.
func (d *DirectTransport) WithToken(token string) *DirectTransport {
	clone := *d
	clone.Token = token
	return &clone
}

// List implements Transport.
func (d *DirectTransport) List(ctx context.Context, loc Location) ([]types.RemoteFile, error) {
	apiURL := d.contentsURL(loc)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: MsgAPIError, Path: loc.Path, Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if d.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.Token)
	}

	resp, err := d.client().Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: MsgAPIError, Path: loc.Path, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errorForStatus(resp.StatusCode, MsgAPIError, loc.Path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: MsgAPIError, Path: loc.Path, Cause: err}
	}
	files, err := decodeListing(body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: MsgMalformedReply, Path: loc.Path, Cause: err}
	}
	return files, nil
}

// Content implements Transport.
func (d *DirectTransport) Content(ctx context.Context, rawURL string) (string, error) {
	hosts := d.ContentHosts
	if len(hosts) == 0 {
		hosts = fetch.TrustedContentHosts
	}
	if !fetch.HostAllowed(rawURL, hosts) {
		return "", &Error{Kind: KindInvalidInput, Message: MsgInvalidDomain, Path: rawURL, Cause: fetch.ErrUntrustedHost}
	}

	result, err := d.fetcher().Fetch(ctx, rawURL)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
			srcErr := errorForStatus(fetchErr.StatusCode, MsgContentFailed, rawURL)
			srcErr.Cause = err
			return "", srcErr
		}
		return "", &Error{Kind: KindTransport, Message: MsgContentFailed, Path: rawURL, Cause: err}
	}
	return result.Body, nil
}

func (d *DirectTransport) contentsURL(loc Location) string {
	base := strings.TrimRight(d.BaseURL, "/")
	if base == "" {
		base = DefaultAPIBaseURL
	}

	segments := []string{}
	for _, segment := range strings.Split(loc.Path, "/") {
		if segment != "" {
			segments = append(segments, url.PathEscape(segment))
		}
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		base, url.PathEscape(loc.Owner), url.PathEscape(loc.Repo), strings.Join(segments, "/"))
	if loc.Branch != "" {
		apiURL += "?ref=" + url.QueryEscape(loc.Branch)
	}
	return apiURL
}

func (d *DirectTransport) client() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return http.DefaultClient
}

func (d *DirectTransport) fetcher() fetch.Fetcher {
	if d.Fetcher != nil {
		return d.Fetcher
	}
	opts := fetch.DefaultOptions()
	opts.Client = d.HTTPClient
	if d.Token != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + d.Token}
	}
	return fetch.NewHTTPFetcher(opts)
}

// decodeListing accepts either a single content object (file) or an array (directory).
func decodeListing(body []byte) ([]types.RemoteFile, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}

	if trimmed[0] == '[' {
		var files []types.RemoteFile
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return nil, err
		}
		if files == nil {
			files = []types.RemoteFile{}
		}
		return files, nil
	}

	var file types.RemoteFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, err
	}
	return []types.RemoteFile{file}, nil
}
