package fetcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ClientOptions configures the shared HTTP client used by all fetchers.
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int           // retry attempts after the first request
	Backoff    time.Duration // fixed sleep between attempts
	PerMinute  int           // request rate cap across all fetchers
	Proxy      string
	UserAgent  string
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = 2 * time.Second
	}
	if o.PerMinute <= 0 {
		o.PerMinute = 30
	}
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	return o
}

// httpClient wraps http.Client with a rate limiter and a bounded retry
// loop with fixed backoff. The public endpoints rate-limit aggressively,
// hence one shared limiter across all three fetchers.
type httpClient struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    ClientOptions
}

func newHTTPClient(opts ClientOptions) *httpClient {
	opts = opts.withDefaults()
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &httpClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(opts.PerMinute)/60), 1),
		opts:    opts,
	}
}

// get issues a GET and returns the body, retrying transient failures.
func (c *httpClient) get(endpoint string, query url.Values) ([]byte, error) {
	u := endpoint
	if len(query) > 0 {
		u = endpoint + "?" + query.Encode()
	}
	return c.do(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
}

// postForm issues a form POST and returns the body, retrying transient
// failures. The request is rebuilt per attempt so the body can be re-read.
func (c *httpClient) postForm(endpoint string, form url.Values) ([]byte, error) {
	encoded := form.Encode()
	return c.do(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

func (c *httpClient) do(build func() (*http.Request, error)) ([]byte, error) {
	attempts := c.opts.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			time.Sleep(c.opts.Backoff)
		}
		if err := c.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("[WARN] %s %s attempt %d/%d: %v", req.Method, req.URL.Path, attempt, attempts, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read body: %w", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d, body: %s", resp.StatusCode, snippet(body))
			log.Printf("[WARN] %s %s attempt %d/%d: status %d", req.Method, req.URL.Path, attempt, attempts, resp.StatusCode)
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

// snippet truncates a raw response for error messages and logs.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
