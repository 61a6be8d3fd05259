// Package api implements the HTTP client for the VenueHub platform: venue
// and program catalogue, time-slot availability, bookings and contest
// entries. All persistent state lives behind this API; the bot only calls it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"venuehub/internal/pricing"
	"venuehub/internal/timeslot"
)

// Client is an HTTP client for the VenueHub platform API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL, API key and request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
	}
}

// SetRateLimit overrides the default outbound request rate.
func (c *Client) SetRateLimit(perSecond float64, burst int) {
	if perSecond > 0 && burst > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// UseRedisCache configures optional Redis caching for catalogue GETs
// (venues, programs, contests). Availability and validation endpoints always
// bypass the cache: an availability window has no identity beyond the
// request that produced it.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// AvailableSlots fetches the bookable start-time labels of a space for one
// calendar date under one requested duration. The duration is clamped to the
// API's [1,12] range before the request is sent. excludeBookingID, when set,
// tells the server to ignore one existing booking (used when rescheduling).
func (c *Client) AvailableSlots(ctx context.Context, spaceID int64, date time.Time, durationHours int, excludeBookingID string) ([]string, error) {
	durationHours = timeslot.ClampDurationHours(durationHours)

	endpoint := fmt.Sprintf("%s/time-slots/available/%d?selected_date=%s&duration_hours=%d&debug=true",
		c.baseURL, spaceID, date.Format("2006-01-02"), durationHours)
	if excludeBookingID != "" {
		endpoint += "&exclude_booking_id=" + url.QueryEscape(excludeBookingID)
	}

	var resp AvailableSlotsResponse
	if err := c.doGet(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.AvailableSlots, nil
}

// ValidateSlot asks the platform to confirm a concrete start/end interval
// just before a booking is created.
func (c *Client) ValidateSlot(ctx context.Context, spaceID int64, start, end time.Time) (*ValidateSlotResponse, error) {
	endpoint := fmt.Sprintf("%s/time-slots/validate", c.baseURL)
	body := ValidateSlotRequest{
		SpaceID:       spaceID,
		StartDatetime: start.Format(time.RFC3339),
		EndDatetime:   end.Format(time.RFC3339),
	}
	var resp ValidateSlotResponse
	if err := c.doPost(ctx, endpoint, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListVenues returns the venue catalogue.
func (c *Client) ListVenues(ctx context.Context) ([]Venue, error) {
	endpoint := fmt.Sprintf("%s/venues", c.baseURL)
	var wrap struct {
		Venues []Venue `json:"venues"`
	}

	if !c.readCache(ctx, "venues", &wrap) {
		if err := c.doGet(ctx, endpoint, &wrap); err != nil {
			return nil, err
		}
		c.writeCache(ctx, "venues", wrap)
	}

	for i := range wrap.Venues {
		normalizeSpaces(wrap.Venues[i].Spaces)
	}
	return wrap.Venues, nil
}

// ListPrograms returns the programs hosted at a venue.
func (c *Client) ListPrograms(ctx context.Context, venueID int64) ([]Program, error) {
	endpoint := fmt.Sprintf("%s/venues/%d/programs", c.baseURL, venueID)
	cacheKey := fmt.Sprintf("programs:%d", venueID)
	var wrap struct {
		Programs []Program `json:"programs"`
	}

	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Programs, nil
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Programs, nil
}

// ListContests returns the currently running contests.
func (c *Client) ListContests(ctx context.Context) ([]Contest, error) {
	endpoint := fmt.Sprintf("%s/contests", c.baseURL)
	var wrap struct {
		Contests []Contest `json:"contests"`
	}

	if c.readCache(ctx, "contests", &wrap) {
		return wrap.Contests, nil
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, "contests", wrap)
	return wrap.Contests, nil
}

// CreateBooking creates a booking.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	endpoint := fmt.Sprintf("%s/bookings", c.baseURL)
	var resp CreateBookingResponse
	if err := c.doPost(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserBookings lists the bookings created under a client reference.
func (c *Client) UserBookings(ctx context.Context, clientRef string) ([]Booking, error) {
	endpoint := fmt.Sprintf("%s/bookings?client_ref=%s", c.baseURL, url.QueryEscape(clientRef))
	var wrap struct {
		Bookings []Booking `json:"bookings"`
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	return wrap.Bookings, nil
}

// CancelBooking cancels a booking by its external reference.
func (c *Client) CancelBooking(ctx context.Context, externalRef string) error {
	endpoint := fmt.Sprintf("%s/bookings/%s", c.baseURL, url.PathEscape(externalRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	return c.do(req, nil)
}

// SubmitContestEntry submits a contest entry.
func (c *Client) SubmitContestEntry(ctx context.Context, req ContestEntryRequest) (*ContestEntryResponse, error) {
	endpoint := fmt.Sprintf("%s/contests/%d/entries", c.baseURL, req.ContestID)
	var resp ContestEntryResponse
	if err := c.doPost(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthCheck checks if the platform API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/healthz", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
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

// normalizeSpaces converts the raw pricing-override shapes into the
// canonical integer-hours mapping.
func normalizeSpaces(spaces []Space) {
	for i := range spaces {
		spaces[i].Overrides = pricing.NormalizeOverrides(spaces[i].RawOverrides)
	}
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, "venuehub:"+key).Result()
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
	_ = c.redis.Set(ctx, "venuehub:"+key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	return c.do(req, out)
}

func (c *Client) doPost(ctx context.Context, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: http %d", ErrServer, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: http %d: %s", ErrBadRequest, resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
