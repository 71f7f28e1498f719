package jupyter

import (
	"context"
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/GriffinCanCode/nbtools/internal/logging"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// ClientConfig configures the notebook server client.
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *logging.Logger
}

// Client wraps resty for the notebook server REST API.
type Client struct {
	Resty  *resty.Client
	Logger *logging.Logger
}

// NewClient creates a client with retries disabled.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "nbtools/1.0"
	}

	// Only the pooled transport is borrowed; retryablehttp's retry loop is never used.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetTransport(retryClient.HTTPClient.Transport)

	return &Client{
		Resty:  restyClient,
		Logger: logging.OrNop(cfg.Logger),
	}
}

func (c *Client) request(ctx context.Context, srv Server) *resty.Request {
	req := c.Resty.R().SetContext(ctx)
	if srv.Token != "" {
		req.SetQueryParam("token", srv.Token)
	}
	return req
}

// Sessions fetches GET {url}/api/sessions from srv.
func (c *Client) Sessions(ctx context.Context, srv Server) ([]Session, error) {
	endpoint := srv.Endpoint() + "api/sessions"
	c.Logger.Debug("listing sessions", zap.String("url", endpoint))

	resp, err := c.request(ctx, srv).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("list sessions %s: %w", endpoint, err)
	}
	if resp.IsError() {
		return nil, &StatusError{URL: endpoint, Status: resp.StatusCode(), Body: truncate(resp.String(), 200)}
	}

	var sessions []Session
	if err := sonic.Unmarshal(resp.Body(), &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions from %s: %w", endpoint, err)
	}
	return sessions, nil
}

// RestartKernel issues POST {url}/api/kernels/{id}/restart on srv.
func (c *Client) RestartKernel(ctx context.Context, srv Server, kernelID string) error {
	endpoint := srv.Endpoint() + "api/kernels/" + url.PathEscape(kernelID) + "/restart"
	c.Logger.Debug("restarting kernel", zap.String("url", endpoint))

	resp, err := c.request(ctx, srv).Post(endpoint)
	if err != nil {
		return fmt.Errorf("restart kernel %s: %w", kernelID, err)
	}
	if resp.IsError() {
		return &StatusError{URL: endpoint, Status: resp.StatusCode(), Body: truncate(resp.String(), 200)}
	}
	return nil
}

// StatusError is a non-2xx reply from a notebook server.
// A 403 usually means the token was rejected.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.Status, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Directory combines server discovery with session listing.
type Directory struct {
	Runtime *RuntimeDirectory
	Client  *Client
}

// NewDirectory creates a Directory.
func NewDirectory(runtime *RuntimeDirectory, client *Client) *Directory {
	return &Directory{Runtime: runtime, Client: client}
}

// Servers lists advertised servers.
func (d *Directory) Servers(ctx context.Context) ([]Server, error) {
	return d.Runtime.Servers(ctx)
}

// Sessions lists the sessions of srv.
func (d *Directory) Sessions(ctx context.Context, srv Server) ([]Session, error) {
	return d.Client.Sessions(ctx, srv)
}
