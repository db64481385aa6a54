// Package bookingapi is the HTTP client for the external booking store. It
// fetches booking intervals and pricing for a property and submits finalized
// booking requests; everything else about the store is its own concern.
package bookingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"staybook/internal/models"
)

// Client is a simple HTTP client for the booking store API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(20), 30),
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// SetRateLimit overrides the default request throttle.
func (c *Client) SetRateLimit(perSecond float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

type intervalsResponse struct {
	Intervals []models.BookingInterval `json:"intervals"`
}

// FetchIntervals returns the stored booking intervals for a property. Every
// interval is validated; a malformed interval from the store is an error
// rather than a silently accepted range.
func (c *Client) FetchIntervals(ctx context.Context, propertyID string) ([]models.BookingInterval, error) {
	endpoint := fmt.Sprintf("%s/api/v1/properties/%s/intervals", c.baseURL, url.PathEscape(propertyID))
	cacheKey := fmt.Sprintf("intervals:%s", propertyID)
	var resp intervalsResponse

	if c.readCache(ctx, cacheKey, &resp) {
		return resp.Intervals, nil
	}

	if err := c.doGet(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Intervals {
		if err := resp.Intervals[i].Validate(); err != nil {
			return nil, fmt.Errorf("store returned invalid interval: %w", err)
		}
	}
	c.writeCache(ctx, cacheKey, resp)
	return resp.Intervals, nil
}

// FetchPricing returns pricing constants for a property.
func (c *Client) FetchPricing(ctx context.Context, propertyID string) (*models.PropertyPricing, error) {
	endpoint := fmt.Sprintf("%s/api/v1/properties/%s/pricing", c.baseURL, url.PathEscape(propertyID))
	cacheKey := fmt.Sprintf("pricing:%s", propertyID)
	var pricing models.PropertyPricing

	if c.readCache(ctx, cacheKey, &pricing) {
		return &pricing, nil
	}

	if err := c.doGet(ctx, endpoint, &pricing); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, pricing)
	return &pricing, nil
}

// SubmitResult is the store's answer to a booking submission. A rejection
// (for example when another booking claimed the range first) is a normal
// result, not a transport error.
type SubmitResult struct {
	Accepted  bool   `json:"accepted"`
	BookingID string `json:"booking_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SubmitBooking hands a finalized booking request to the store. Each call
// carries a fresh idempotency key so a retried submission cannot double-book.
func (c *Client) SubmitBooking(ctx context.Context, req models.BookingRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/api/v1/bookings", c.baseURL)

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.addHeaders(httpReq, uuid.New().String())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 409 means the range was claimed between validation and submission.
	// That is a rejection the caller recovers from, not a transport error.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
		return nil, fmt.Errorf("booking store: http %d", resp.StatusCode)
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusConflict {
		result.Accepted = false
	}
	// Either outcome means the cached calendar is stale: on acceptance our
	// booking landed, on rejection someone else's did. Drop it so the next
	// fetch shows the winner.
	c.dropCache(ctx, fmt.Sprintf("intervals:%s", req.PropertyID))
	return &result, nil
}

// HealthCheck checks if the booking store API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) dropCache(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, key).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req, "")
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("booking store: http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) addHeaders(req *http.Request, idempotencyKey string) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("x-idempotency-key", idempotencyKey)
	}
}
