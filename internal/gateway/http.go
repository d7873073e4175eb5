package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"snowthaw/internal/domain"
	"snowthaw/internal/log"
)

const maxErrorBody = 4 << 10

// Options configures an HTTPClient
type Options struct {
	// Timeout bounds one request; zero means no limit
	Timeout time.Duration
	// RequestsPerSecond caps outgoing requests; zero or less disables the limiter
	RequestsPerSecond float64
	// HTTPClient overrides the underlying client
	HTTPClient *http.Client
}

// HTTPClient is the Gateway backed by the lookup service's JSON API
type HTTPClient struct {
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewHTTPClient creates a client for the service rooted at baseURL
func NewHTTPClient(baseURL string, opts Options) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base %q: scheme must be http or https", baseURL)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	c := &HTTPClient{
		base:   base,
		client: client,
		logger: log.ForService("gateway"),
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// SearchURL builds the lookup address. Types are omitted when filters is empty.
func (c *HTTPClient) SearchURL(query string, filters domain.FilterSet) string {
	u := c.endpoint("articles", "search")
	q := url.Values{}
	q.Set("q", query)
	if !filters.IsEmpty() {
		q.Set("types", filters.String())
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Search runs one lookup
func (c *HTTPClient) Search(ctx context.Context, query string, filters domain.FilterSet) (*Response, error) {
	target := c.SearchURL(query, filters)
	c.logger.Debugf("GET %s", target)

	var resp Response
	if err := c.getJSON(ctx, target, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []domain.SearchHit{}
	}
	return &resp, nil
}

// Article fetches one card by id
func (c *HTTPClient) Article(ctx context.Context, id string) (*domain.Card, error) {
	u := c.endpoint("articles", id)
	var card domain.Card
	if err := c.getJSON(ctx, u.String(), &card); err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &card, nil
}

func (c *HTTPClient) endpoint(segments ...string) *url.URL {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	return &u
}

func (c *HTTPClient) getJSON(ctx context.Context, target string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &GatewayError{StatusCode: res.StatusCode, Message: errorMessage(res.Body)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &GatewayError{StatusCode: res.StatusCode, Message: fmt.Sprintf("decode body: %v", err)}
	}
	return nil
}

// errorMessage extracts the service's {"message"} field, falling back to the raw body
func errorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
