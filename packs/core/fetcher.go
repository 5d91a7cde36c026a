// ABOUTME: HTTP fetch collaborator used by packs for all network calls.
// ABOUTME: Attaches host-provided authentication unless explicitly disabled.

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// FetchRequest describes one outbound HTTP request
type FetchRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte

	// DisableAuthentication skips attaching the caller's token
	DisableAuthentication bool
}

// FetchResponse holds the raw result of a fetch
type FetchResponse struct {
	StatusCode int
	Body       []byte
}

// Fetcher is the network boundary packs depend on. The host provides an
// implementation with authentication already wired in.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error)
}

// HTTPFetcher is the standard Fetcher backed by net/http
type HTTPFetcher struct {
	Client *http.Client
	Token  string // bearer token attached unless DisableAuthentication
}

func NewHTTPFetcher(token string) *HTTPFetcher {
	return &HTTPFetcher{Client: http.DefaultClient, Token: token}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.DisableAuthentication && f.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+f.Token)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}

	return &FetchResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// FetchJSON performs a fetch and decodes the body into out. Status codes of
// 400 and above become errors: 404 maps to NotFoundError, everything else to
// TransportError with the response body as the message.
func FetchJSON(ctx context.Context, f Fetcher, req FetchRequest, out any) error {
	resp, err := f.Fetch(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Resource: "resource", ID: req.URL}
	}
	if resp.StatusCode >= 400 {
		return &TransportError{
			URL: req.URL,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(resp.Body, 200)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &TransportError{URL: req.URL, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
