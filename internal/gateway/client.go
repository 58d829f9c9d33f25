// Package gateway provides access to the Harbor REST API: an HTTP client
// carrying authentication and TLS policy, a paginator for list endpoints and
// the Fetcher used by the aggregation use case.
package gateway

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const defaultUserAgent = "harbor-summary"

// ClientOptions configures a Client. Token takes precedence over
// Username/Password when both are set.
type ClientOptions struct {
	BaseURL   string
	Username  string
	Password  string
	Token     string
	Insecure  bool
	Timeout   time.Duration
	UserAgent string
}

// Client is an explicitly constructed API session: base URL, auth, TLS
// policy and per-request timeout.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient is a constructor that creates a new Client from opts.
func NewClient(opts ClientOptions, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", opts.BaseURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		logger.Warn().Msg("TLS certificate verification is disabled")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit --insecure
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	var rt http.RoundTripper = &headerTransport{
		base: transport,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": userAgent,
		},
	}

	switch {
	case opts.Token != "":
		logger.Debug().Msg("Using bearer token authentication")
		rt = &oauth2.Transport{
			Base:   rt,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	case opts.Username != "":
		logger.Debug().Str("username", opts.Username).Msg("Using basic authentication")
		rt = &basicAuthTransport{base: rt, username: opts.Username, password: opts.Password}
	}

	return NewClientWithHTTP(base, &http.Client{Transport: rt, Timeout: opts.Timeout}, logger), nil
}

// NewClientWithHTTP wraps an existing *http.Client. Tests use it to point
// the client at an httptest server.
func NewClientWithHTTP(base *url.URL, httpClient *http.Client, logger zerolog.Logger) *Client {
	return &Client{baseURL: base, httpClient: httpClient, logger: logger}
}

// resolve joins path onto the base URL the way a browser resolves a link:
// an absolute path replaces the base path.
func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

type basicAuthTransport struct {
	base     http.RoundTripper
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
