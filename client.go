package spendapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
)

// apiRoundTripper asks for brotli encoded JSON, tags requests with a request ID and
// decodes brotli responses so callers read plain bodies.
type apiRoundTripper struct {
	base http.RoundTripper
}

func newAPITransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &apiRoundTripper{base: base}
}

// RoundTrip satisfies http.RoundTripper
func (rt *apiRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("Accept-Encoding", "br")
	if req.Header.Get(RequestIDHeader) == "" {
		if id, err := uuid.NewV7(); err == nil {
			req.Header.Set(RequestIDHeader, id.String())
		}
	}

	res, err := rt.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(res.Header.Get("Content-Encoding"), "br") {
		res.Body = &brotliBody{Reader: brotli.NewReader(res.Body), closer: res.Body}
		res.Header.Del("Content-Encoding")
		res.Header.Del("Content-Length")
		res.ContentLength = -1
		res.Uncompressed = true
	}
	return res, nil
}

// brotliBody reads through the brotli decoder and closes the raw body.
type brotliBody struct {
	io.Reader
	closer io.Closer
}

func (b *brotliBody) Close() error {
	return b.closer.Close()
}

// Client calls a running spendapi server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient returns a client for the API served at baseURL.
func NewClient(baseURL string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %s : %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("base url must be http or https")
	}
	return &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newAPITransport(nil),
		},
	}, nil
}

// Get requests path, relative to the base URL, with query. The caller closes the body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.baseURL.JoinPath(path)
	if !strings.HasSuffix(target.Path, "/") {
		target.Path += "/"
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s : %w", target, err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s : %w", target, err)
	}
	return res, nil
}
