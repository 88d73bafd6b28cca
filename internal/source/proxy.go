package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/framecraft/internal/types"
)

// ProxyTransport calls the framecraft /browse and /content endpoints, which
// hold the GitHub credential server-side.
type ProxyTransport struct {
	// BaseURL is the proxy root, e.g. http://localhost:8080.
	BaseURL    string
	HTTPClient *http.Client
}

// NewProxyTransport creates a proxy transport for baseURL.
func NewProxyTransport(baseURL string) *ProxyTransport {
	return &ProxyTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type proxyReply struct {
	Success bool               `json:"success"`
	Files   []types.RemoteFile `json:"files"`
	Content string             `json:"content"`
	Error   string             `json:"error"`
}

// List implements Transport.
func (p *ProxyTransport) List(ctx context.Context, loc Location) ([]types.RemoteFile, error) {
	req := types.BrowseRequest{Owner: loc.Owner, Repo: loc.Repo, Path: loc.Path, Branch: loc.Branch}
	reply, err := p.post(ctx, "/browse", req, loc.Path, MsgAPIError)
	if err != nil {
		return nil, err
	}
	if reply.Files == nil {
		return []types.RemoteFile{}, nil
	}
	return reply.Files, nil
}

// Content implements Transport.
func (p *ProxyTransport) Content(ctx context.Context, rawURL string) (string, error) {
	reply, err := p.post(ctx, "/content", types.ContentRequest{URL: rawURL}, rawURL, MsgContentFailed)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (p *ProxyTransport) post(ctx context.Context, endpoint string, payload any, path, fallback string) (*proxyReply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fallback, Path: path, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fallback, Path: path, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fallback, Path: path, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fallback, Path: path, Cause: err}
	}

	var reply proxyReply
	decodeErr := json.Unmarshal(raw, &reply)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fallback
		if decodeErr == nil && reply.Error != "" {
			message = reply.Error
		}
		return nil, errorForStatus(resp.StatusCode, message, path)
	}
	if decodeErr != nil {
		return nil, &Error{Kind: KindTransport, Message: MsgMalformedReply, Path: path, Cause: decodeErr}
	}
	if !reply.Success {
		return nil, &Error{Kind: KindTransport, Message: fallback, Path: path, Cause: fmt.Errorf("proxy reported failure: %s", reply.Error)}
	}
	return &reply, nil
}
