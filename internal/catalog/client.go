package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/leonardcser/catalog-mcp/internal/cache"
	"github.com/leonardcser/catalog-mcp/internal/logger"
	"github.com/leonardcser/catalog-mcp/internal/web"
)

const (
	DefaultTimeout  = 10 * time.Second
	DetailsTimeout  = 8 * time.Second
	MaxResponseSize = 4 * 1024 * 1024 // 4MB
	DefaultLimit    = 12
)

// Client issues GET requests against the catalog API and memoizes
// successful results.
type Client struct {
	http  *http.Client
	memo  cache.KV[Result]
	base  string
	token string
	group singleflight.Group
}

// NewClient returns a client rooted at base. The token is sent as the
// "token" query parameter on catalog endpoints.
func NewClient(memo cache.KV[Result], base, token string) *Client {
	return &Client{
		http:  &http.Client{},
		memo:  memo,
		base:  strings.TrimRight(base, "/"),
		token: token,
	}
}

type requestOptions struct {
	timeout time.Duration
	noCache bool
}

// RequestOption tunes a single Request call.
type RequestOption func(*requestOptions)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) { o.timeout = d }
}

// WithoutCache bypasses memoization for one call.
func WithoutCache() RequestOption {
	return func(o *requestOptions) { o.noCache = true }
}

// Request performs GET endpoint?params. Successful results are memoized
// under a key derived from the endpoint and the full parameter set;
// failures are returned but never cached. Concurrent identical misses
// share one upstream call.
func (c *Client) Request(ctx context.Context, endpoint string, params url.Values, opts ...RequestOption) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	ro := requestOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.noCache {
		return c.fetch(ctx, endpoint, params, ro.timeout)
	}

	key := cache.Key("req", endpoint, params)
	if r, ok := c.memo.Get(key); ok {
		logger.Debugf("cache hit %s", key)
		return r
	}
	// The shared fetch outlives any single caller; each caller still
	// gives up when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		r := c.fetch(shared, endpoint, params, ro.timeout)
		if r.Success {
			c.memo.Set(key, r)
		}
		return r, nil
	})
	select {
	case res := <-ch:
		return res.Val.(Result)
	case <-ctx.Done():
		return Fail(ctx.Err().Error(), classify(ctx.Err()))
	}
}

// MovieList fetches one page of the catalog. Caller params override the
// token, limit and page defaults.
func (c *Client) MovieList(ctx context.Context, params url.Values) Result {
	q := url.Values{
		"limit": {fmt.Sprint(DefaultLimit)},
		"page":  {"1"},
	}
	if c.token != "" {
		q.Set("token", c.token)
	}
	merge(q, params)
	return c.Request(ctx, c.base+"/list", q)
}

// MovieDetails fetches full information for one title.
func (c *Client) MovieDetails(ctx context.Context, params url.Values) Result {
	q := url.Values{}
	if c.token != "" {
		q.Set("token", c.token)
	}
	merge(q, params)
	return c.Request(ctx, c.base+"/franchise/details", q, WithTimeout(DetailsTimeout))
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, timeout time.Duration) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Fail(err.Error(), "")
	}
	req.Header.Set("User-Agent", web.NextUserAgent())
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warnf("GET %s failed: %v", endpoint, err)
		return Fail(err.Error(), classify(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code := CodeBadResponse
		if resp.StatusCode < 500 {
			code = CodeBadRequest
		}
		logger.Warnf("GET %s: status %d", endpoint, resp.StatusCode)
		return Fail(fmt.Sprintf("request failed with status code %d", resp.StatusCode), code)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return Fail(err.Error(), classify(err))
	}
	if len(body) > MaxResponseSize {
		return Fail("response exceeds size limit", CodeBadResponse)
	}
	if !json.Valid(body) {
		return Fail("invalid JSON response", CodeBadResponse)
	}
	return Result{Success: true, Data: body}
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CodeAborted
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return CodeAborted
	}
	return CodeNetwork
}

func merge(dst, src url.Values) {
	for k, vs := range src {
		if len(vs) == 0 || vs[0] == "" {
			continue
		}
		dst[k] = vs
	}
}
