package historian

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff"

	"github.com/tagspc/tagspc/internal/config"
)

// Client queries one historian dataset. It is safe for concurrent use;
// the underlying http.Client is built once and reused.
type Client struct {
	baseURL    string
	dataset    string
	batchSize  int
	maxRetries uint64
	httpc      *http.Client
}

// New builds a Client from the historian configuration.
func New(cfg config.Historian) *Client {
	transport := &authRoundTripper{
		base: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
			},
		},
		auth: cfg.Auth,
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		dataset:    cfg.Dataset,
		batchSize:  cfg.BatchSize,
		maxRetries: uint64(cfg.MaxRetries),
		httpc: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.Auth
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.auth.Header, t.auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.auth.Username, t.auth.Password())
	}
	return t.base.RoundTrip(req)
}

// Query fetches the points for every tag over [start, end]. Tags are
// requested in batches; the result maps tag name to its time-ordered
// points with missing readings already filtered out. Tags absent from the
// response map to a nil slice.
func (c *Client) Query(ctx context.Context, tags []string, start, end string) (map[string][]Point, error) {
	out := make(map[string][]Point, len(tags))

	for i := 0; i < len(tags); i += c.batchSize {
		batch := tags[i:min(i+c.batchSize, len(tags))]

		resp, err := c.fetch(ctx, batch, start, end)
		if err != nil {
			return nil, err
		}
		for _, tl := range resp.TagList {
			out[tl.Tag.Name] = filterPresent(tl.Data)
		}
	}
	return out, nil
}

// QueryTag fetches the points for a single tag.
func (c *Client) QueryTag(ctx context.Context, tag, start, end string) ([]Point, error) {
	res, err := c.Query(ctx, []string{tag}, start, end)
	if err != nil {
		return nil, err
	}
	return res[tag], nil
}

type queryResponse struct {
	TagList []struct {
		Tag struct {
			Name string `json:"n"`
		} `json:"t"`
		Data []Point `json:"d"`
	} `json:"tl"`
}

// fetch performs one batched data request, retrying transient failures
// with exponential backoff. HTTP 4xx responses are permanent.
func (c *Client) fetch(ctx context.Context, tags []string, start, end string) (*queryResponse, error) {
	q := url.Values{}
	for _, t := range tags {
		q.Add("tagname", t)
	}
	q.Set("start", start)
	q.Set("end", end)
	reqURL := fmt.Sprintf("%s/api/datasets/%s/data?%s",
		c.baseURL, url.PathEscape(c.dataset), q.Encode())

	var decoded queryResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return fmt.Errorf("http get: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		decoded = queryResponse{}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("parse response: %w", err))
		}
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, fmt.Errorf("historian: query %q: %w", c.dataset, err)
	}
	return &decoded, nil
}

// filterPresent drops points without a value (missing readings).
func filterPresent(points []Point) []Point {
	out := points[:0:0]
	for _, p := range points {
		if p.Value != nil {
			out = append(out, p)
		}
	}
	return out
}
