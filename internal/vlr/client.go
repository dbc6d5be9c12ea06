// Package vlr talks to the results site: raw page fetches, match-URL
// discovery, and a stats-page adaptor over fetched markup.
package vlr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/config"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/constants"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// FetchError covers network failures, timeouts and non-2xx responses. The
// orchestrator recovers from it by skipping the page or match.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Client fetches raw markup. It does not retry: retry policy, if any, lives in
// the orchestrator loop around a whole match.
type Client struct {
	baseURL string
	client  *fasthttp.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.FetchTimeout,
			WriteTimeout:        constants.FetchTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// BaseURL returns the configured site root, without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPage retrieves one page and returns its raw markup. Non-2xx statuses
// and transport failures surface as *FetchError.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.FetchTimeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return "", &FetchError{URL: url, StatusCode: status}
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return string(body), nil
}
