// Package gateway implements the HTTP client for the remote vehicle
// listings API. The gateway is the authoritative data source: this
// system holds no listing state of its own beyond the page being shown.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/plexcars/catalog/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Limit the size of a relayed gateway body. A listing page is a few
// hundred KB at most; anything larger is a misbehaving upstream.
const maxBodyBytes = 8 << 20

// listingBody mirrors the gateway's response shape. Both fields may be
// absent; absent data means an empty page.
type listingBody struct {
	Data []domain.Car `json:"data"`
	Meta struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

// Client talks to the remote listings gateway.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

var _ domain.ListingGateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero or negative values
// keep the default of 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpc.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a gateway client for the given base URL
// (e.g. "https://plex-parser.ru-rating.ru").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches one page of listings:
//
//	GET <base>/cars?_limit=<perPage>&_page=<page>[&q=<search>]
//
// Transport failures and non-2xx responses are reported as unavailable
// errors; the caller decides how to surface them.
func (c *Client) List(ctx context.Context, q domain.ListQuery) (*domain.Listing, error) {
	reqURL := c.listURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "build gateway request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "gateway request failed",
			slog.String("url", reqURL),
			slog.Any("error", err),
		)
		return nil, domain.NewAppError(domain.CodeUnavailable, "listings gateway unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnavailable, "read gateway response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "gateway returned error status",
			slog.String("url", reqURL),
			slog.Int("status", resp.StatusCode),
		)
		return nil, domain.NewAppError(domain.CodeUnavailable,
			fmt.Sprintf("gateway request failed with status %d", resp.StatusCode), nil)
	}

	var decoded listingBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.NewAppError(domain.CodeUnavailable, "decode gateway response", err)
	}

	c.logger.DebugContext(ctx, "gateway page fetched",
		slog.Int("page", q.Page),
		slog.Int("items", len(decoded.Data)),
		slog.Int64("total", decoded.Meta.Total),
		slog.Duration("latency", time.Since(start)),
	)

	return &domain.Listing{
		Cars:  decoded.Data,
		Total: decoded.Meta.Total,
		Raw:   json.RawMessage(body),
	}, nil
}

// listURL builds the gateway request URL for a query. The search
// parameter is omitted entirely when empty, matching the gateway's
// expectations.
func (c *Client) listURL(q domain.ListQuery) string {
	v := url.Values{}
	v.Set("_limit", strconv.Itoa(q.PerPage))
	v.Set("_page", strconv.Itoa(q.Page))
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	return c.baseURL + "/cars?" + v.Encode()
}
