// Package flights acquires raw flight tables from the AviationStack API,
// the local cache or the mock generator.
package flights

import (
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

	"golang.org/x/time/rate"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
	"github.com/j-veylop/flight-demand-tui/internal/models"
)

var (
	// ErrRateLimited is returned when every retry was answered with 429.
	ErrRateLimited = errors.New("aviationstack rate limit exceeded")
	// ErrNoAPIKey is returned when the client has no access key.
	ErrNoAPIKey = errors.New("aviationstack access key not configured")
)

const (
	defaultLimit      = 100
	defaultMaxRetries = 3
	maxBackoff        = 60 * time.Second
)

// Flight is one entry of the AviationStack /flights response.
type Flight struct {
	FlightDate string   `json:"flight_date"`
	Status     string   `json:"flight_status"`
	Departure  Endpoint `json:"departure"`
	Arrival    Endpoint `json:"arrival"`
	Airline    struct {
		Name string `json:"name"`
		IATA string `json:"iata"`
	} `json:"airline"`
}

// Endpoint is the departure or arrival side of a flight.
type Endpoint struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	Scheduled string `json:"scheduled"`
}

type flightsResponse struct {
	Data  []Flight `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the AviationStack REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	wait       func(ctx context.Context, d time.Duration) error
	baseURL    string
	apiKey     string
	maxRetries int
}

// NewClient creates a client allowing rps requests per second.
func NewClient(baseURL, apiKey string, timeout time.Duration, rps float64, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		wait:       sleepCtx,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxRetries: maxRetries,
	}
}

// WithBaseURL points the client at another server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// Departures returns up to limit flights departing from depIATA. A 429
// answer waits min(2^attempt, 60) seconds before retrying. The last
// attempt returns its error without waiting.
func (c *Client) Departures(ctx context.Context, depIATA string, limit int) ([]Flight, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("dep_iata", depIATA)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := c.baseURL + "/flights?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		flights, retry, err := c.get(ctx, endpoint)
		if err == nil {
			return flights, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
		if attempt == c.maxRetries-1 {
			break
		}

		backoff := min(time.Duration(1<<attempt)*time.Second, maxBackoff)
		logger.Warn("aviationstack request failed, retrying", "attempt", attempt+1, "wait", backoff, "error", err)
		if err := c.wait(ctx, backoff); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// get performs one request. retry reports whether the failure is worth
// another attempt.
func (c *Client) get(ctx context.Context, endpoint string) ([]Flight, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("aviationstack request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("aviationstack error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed flightsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, false, fmt.Errorf("aviationstack error %s: %s", parsed.Error.Code, parsed.Error.Message)
	}
	return parsed.Data, false, nil
}

// ToTable maps API flights onto the flight table. The API carries no
// prices or durations, so those columns are present but empty.
func ToTable(flights []Flight) *models.FlightTable {
	cols := models.NewColumnSet(
		models.ColFlightDate, models.ColFlightTime, models.ColOrigin, models.ColDestination,
		models.ColPrice, models.ColAirline, models.ColDuration, models.ColIsDomestic,
	)
	records := make([]models.FlightRecord, 0, len(flights))
	for _, f := range flights {
		origin := strings.ToUpper(f.Departure.IATA)
		dest := strings.ToUpper(f.Arrival.IATA)
		if origin == "" || dest == "" {
			continue
		}
		r := models.FlightRecord{
			RawDate:     f.FlightDate,
			Origin:      origin,
			Destination: dest,
		}
		if tod := timeOfDay(f.Departure.Scheduled); tod != "" {
			r.FlightTime = models.Ptr(tod)
		}
		if f.Airline.Name != "" {
			r.Airline = models.Ptr(f.Airline.Name)
		}
		records = append(records, r)
	}
	return models.NewFlightTable(cols, records)
}

// timeOfDay extracts HH:MM from an RFC 3339 timestamp.
func timeOfDay(scheduled string) string {
	if scheduled == "" {
		return ""
	}
	if ts, err := time.Parse(time.RFC3339, scheduled); err == nil {
		return ts.Format("15:04")
	}
	return ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
