// Package registry is a read-only client for the Docker Registry HTTP API v2.
package registry

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

const maxBodySize = 16 << 20

// HTTPError is returned for any non-200 registry response.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Message, e.URL)
	}
	return fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.URL)
}

func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

// Options configures a Client.
type Options struct {
	URL      string
	CheckTLS bool
	Username string
	Password string
	Timeout  time.Duration
	Logger   *zap.Logger
}

type Client struct {
	http     *http.Client
	base     *url.URL
	username string
	password string
	log      *zap.Logger
}

// New builds a client for the registry at opts.URL. The URL may or may not
// end in /v2; it is normalized so that every request path hangs off /v2.
func New(opts Options) (*Client, error) {
	base, err := baseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.CheckTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		http:     &http.Client{Transport: tr, Timeout: timeout},
		base:     base,
		username: opts.Username,
		password: opts.Password,
		log:      log,
	}, nil
}

func baseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse registry url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("registry url %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("registry url %q has no host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/v2") + "/v2"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// Host returns the registry host[:port], as used in pull references.
func (c *Client) Host() string {
	return c.base.Host
}

// BaseURL returns the normalized /v2 endpoint.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// Ping checks that the registry answers on /v2/.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.get(ctx, c.endpoint("/"), "")
	if err != nil {
		return fmt.Errorf("ping registry: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, target, accept string) (http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("registry request failed", zap.String("url", target), zap.Error(err))
		return nil, nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, nil, fmt.Errorf("read response from %s: %w", target, err)
	}
	c.log.Debug("registry request",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return resp.Header, body, &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        target,
			Message:    gjson.GetBytes(body, "errors.0.message").String(),
		}
	}
	return resp.Header, body, nil
}

// escapeName escapes each segment of a repository name so that
// namespaced names like library/nginx stay paths.
func escapeName(name string) string {
	parts := strings.Split(strings.Trim(name, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
