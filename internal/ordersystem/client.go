// Package ordersystem provides a rate-limited client for the order management API.
package ordersystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is returned when the order system has no such resource.
	ErrNotFound = errors.New("order system resource not found")
	// ErrRateLimited is returned when retries for a 429 response are exhausted.
	ErrRateLimited = errors.New("order system rate limit exceeded")
)

// Config holds order system client configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxRetries        int
}

// DefaultConfig returns conservative client settings.
func DefaultConfig() Config {
	return Config{
		UserAgent:         "pack-advice/1.0",
		RequestsPerSecond: 2,
		Burst:             5,
		Timeout:           10 * time.Second,
		MaxRetries:        3,
	}
}

// StatusError reports an unexpected response status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to the order system API.
type Client struct {
	cfg            Config
	http           *http.Client
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a client. cb may be nil.
func NewClient(cfg Config, cb *circuitbreaker.CircuitBreaker) *Client {
	def := DefaultConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:            cfg,
		http:           &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		circuitBreaker: cb,
	}
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (c *Client) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}

// Product returns the full product record.
func (c *Client) Product(ctx context.Context, productID int64) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(productID, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductParts returns the parts of a composition product.
func (c *Client) ProductParts(ctx context.Context, productID int64) ([]ProductPart, error) {
	var parts []ProductPart
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(productID, 10)+"/parts", nil, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// OrderTags returns the tags currently on the order.
func (c *Client) OrderTags(ctx context.Context, orderID int64) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.do(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(orderID, 10)+"/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// TagDefinitions returns every tag known to the order system.
func (c *Client) TagDefinitions(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// AddOrderTag adds an existing tag to the order.
func (c *Client) AddOrderTag(ctx context.Context, orderID, tagID int64) error {
	return c.do(ctx, http.MethodPost, "/orders/"+strconv.FormatInt(orderID, 10)+"/tags", addTagRequest{ID: tagID}, nil)
}

// RemoveOrderTag removes a tag from the order.
func (c *Client) RemoveOrderTag(ctx context.Context, orderID, tagID int64) error {
	path := "/orders/" + strconv.FormatInt(orderID, 10) + "/tags/" + strconv.FormatInt(tagID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	call := func() error { return c.send(ctx, method, path, body, out) }
	if c.circuitBreaker == nil {
		return call()
	}

	// A missing resource is an answer, not an outage.
	return c.circuitBreaker.ExecuteTolerating(ctx, call, ErrNotFound)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.cfg.APIKey, "")
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			if attempt+1 >= c.cfg.MaxRetries {
				return ErrRateLimited
			}
			wait := retryAfter(resp.Header.Get("Retry-After"), attempt)
			log.Warn().Str("path", path).Dur("wait", wait).Int("attempt", attempt+1).Msg("Order system rate limited")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		return decode(resp, method, path, out)
	}
}

func decode(resp *http.Response, method, path string, out interface{}) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func retryAfter(header string, attempt int) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Duration(500*(1<<attempt)) * time.Millisecond
}
