// Package client talks to a remote `pathways serve` instance. It
// implements the explorer's Source so the terminal client can run
// against a server instead of a local database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/store"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Is lets a 404 match store.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == store.ErrNotFound && e.Status == http.StatusNotFound
}

// Client is a JSON client for the query API.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on a copy of the HTTP client,
// leaving any client passed to WithHTTPClient untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pathways-api",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// do sends a request through the breaker and decodes a JSON response
// into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, body, out)
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
			if apiErr.Message == "" {
				apiErr.Message = payload.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Courses lists every course.
func (c *Client) Courses(ctx context.Context) ([]catalog.Course, error) {
	var out []catalog.Course
	err := c.do(ctx, http.MethodGet, "/api/courses", nil, &out)
	return out, err
}

// CoursesByLevel lists the courses at one level.
func (c *Client) CoursesByLevel(ctx context.Context, level int) ([]catalog.Course, error) {
	var out []catalog.Course
	err := c.do(ctx, http.MethodGet, "/api/courses/level/"+strconv.Itoa(level), nil, &out)
	return out, err
}

// Course fetches one course. Unknown ids match store.ErrNotFound.
func (c *Client) Course(ctx context.Context, id int) (catalog.Course, error) {
	var out catalog.Course
	err := c.do(ctx, http.MethodGet, "/api/courses/"+strconv.Itoa(id), nil, &out)
	return out, err
}

// Connections lists every connection.
func (c *Client) Connections(ctx context.Context) ([]catalog.Connection, error) {
	var out []catalog.Connection
	err := c.do(ctx, http.MethodGet, "/api/connections", nil, &out)
	return out, err
}

// KSB lists every enrichment record.
func (c *Client) KSB(ctx context.Context) ([]catalog.KSB, error) {
	var out []catalog.KSB
	err := c.do(ctx, http.MethodGet, "/api/ksb/mappings", nil, &out)
	return out, err
}

// Outgoing lists the routes leaving a course.
func (c *Client) Outgoing(ctx context.Context, courseID int) ([]catalog.Route, error) {
	var out []catalog.Route
	err := c.do(ctx, http.MethodGet, "/api/courses/"+strconv.Itoa(courseID)+"/progression", nil, &out)
	return out, err
}

// Incoming lists the routes arriving at a course.
func (c *Client) Incoming(ctx context.Context, courseID int) ([]catalog.Route, error) {
	var out []catalog.Route
	err := c.do(ctx, http.MethodGet, "/api/courses/"+strconv.Itoa(courseID)+"/preceding", nil, &out)
	return out, err
}

// CareerLink resolves a job title to its careers profile.
func (c *Client) CareerLink(ctx context.Context, jobTitle string) (careers.Link, error) {
	var out careers.Link
	err := c.do(ctx, http.MethodGet, "/api/career-mapping/"+url.PathEscape(jobTitle), nil, &out)
	return out, err
}

// SearchRequest mirrors the server's KSB search body.
type SearchRequest struct {
	Query         string `json:"query"`
	SearchType    string `json:"searchType,omitempty"`
	MinConfidence int    `json:"minConfidence,omitempty"`
}

// Search runs a server-side KSB search.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]search.Result, error) {
	var out []search.Result
	err := c.do(ctx, http.MethodPost, "/api/ksb/search", req, &out)
	return out, err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
