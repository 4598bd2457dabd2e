package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 4 << 20

// Client talks to a TMDB-compatible REST endpoint
type Client struct {
	apiKey   string
	endpoint string
	parser   *Parser
	http     *http.Client
}

var (
	_ Provider       = (*Client)(nil)
	_ DetailProvider = (*Client)(nil)
)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithImageBase overrides where poster paths are resolved
func WithImageBase(base string) Option {
	return func(c *Client) {
		c.parser = NewParser(base)
	}
}

// NewClient creates a catalog client
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("catalog endpoint required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	client := &Client{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: strings.TrimRight(endpoint, "/"),
		parser:   NewParser(""),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search runs a multi search and returns movies and shows in provider order
func (c *Client) Search(ctx context.Context, query, language string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")
	if language != "" {
		params.Set("language", language)
	}

	const path = "/search/multi"
	data, err := c.fetch(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseSearch(path, data)
}

// Details fetches a single movie or show
func (c *Client) Details(ctx context.Context, ref Ref, language string) (*Details, error) {
	if ref.ID <= 0 {
		return nil, &NotFoundError{Ref: ref.String()}
	}

	var path string
	switch ref.Kind {
	case KindMovie:
		path = fmt.Sprintf("/movie/%d", ref.ID)
	case KindShow:
		path = fmt.Sprintf("/tv/%d", ref.ID)
	default:
		return nil, &NotFoundError{Ref: ref.String()}
	}

	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	data, err := c.fetch(ctx, path, params)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Ref: ref.String()}
		}
		return nil, err
	}
	return c.parser.ParseDetails(path, ref.Kind, data)
}

// fetch performs a GET and returns the raw body
func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	endpoint, err := url.Parse(c.endpoint + path)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: fmt.Errorf("latency=%v: %w", time.Since(requestStart), err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Path: path, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	return data, nil
}
