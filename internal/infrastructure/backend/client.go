package backend

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

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrNotConfigured   = errors.New("backend base URL is not configured")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// Config holds the connection settings for the REST backend
type Config struct {
	BaseURL string
	// Token is a static bearer token, used when no client credentials are set.
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration
}

// Client is a thin JSON client for the backend. Every adapter in this package
// goes through it so authentication and error decoding live in one place.
type Client struct {
	http *http.Client
	base *url.URL
	log  zerolog.Logger
}

// Error is a non-2xx answer from the backend. Body keeps the raw payload so it
// can be shown to the cashier as-is.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Body       json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Payload returns the decoded error body, or the body as text when it is not JSON.
func (e *Error) Payload() interface{} {
	if len(bytes.TrimSpace(e.Body)) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(e.Body, &v); err != nil {
		return string(e.Body)
	}
	return v
}

// ErrorPayload extracts the backend payload from err, if it wraps an *Error.
func ErrorPayload(err error) interface{} {
	var be *Error
	if errors.As(err, &be) {
		return be.Payload()
	}
	return nil
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.StatusCode == http.StatusNotFound
}

// NewClient builds a client authenticating with client credentials when they
// are configured, otherwise with the static token.
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}

	var httpClient *http.Client
	switch {
	case cfg.ClientID != "" && cfg.TokenURL != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		httpClient = cc.Client(ctx)
	case cfg.Token != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	default:
		httpClient = &http.Client{}
	}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		http: httpClient,
		base: base,
		log:  log.With().Str("component", "backend").Logger(),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", target.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       target.Path,
			Body:       json.RawMessage(raw),
		}
	}
	return json.RawMessage(raw), nil
}
