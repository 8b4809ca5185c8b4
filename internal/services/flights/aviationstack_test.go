package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/flight-demand-tui/internal/models"
)

const departuresBody = `{
  "data": [
    {
      "flight_date": "2024-06-01",
      "flight_status": "scheduled",
      "departure": {"airport": "Sydney", "iata": "SYD", "scheduled": "2024-06-01T08:35:00+00:00"},
      "arrival": {"airport": "Melbourne", "iata": "MEL", "scheduled": "2024-06-01T10:05:00+00:00"},
      "airline": {"name": "Qantas", "iata": "QF"}
    },
    {
      "flight_date": "2024-06-01",
      "departure": {"iata": "SYD", "scheduled": ""},
      "arrival": {"iata": "AKL"},
      "airline": {"name": ""}
    },
    {
      "flight_date": "2024-06-01",
      "departure": {"iata": "SYD"},
      "arrival": {"iata": ""}
    }
  ]
}`

// noWait records requested backoffs instead of sleeping.
func noWait(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDepartures_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "SYD", r.URL.Query().Get("dep_iata"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(departuresBody))
	}))
	defer srv.Close()

	client := NewClient("http://unused", "secret", 5*time.Second, 0, 3).WithBaseURL(srv.URL)
	flights, err := client.Departures(context.Background(), "SYD", 0)
	require.NoError(t, err)
	require.Len(t, flights, 3)
	assert.Equal(t, "MEL", flights[0].Arrival.IATA)
	assert.Equal(t, "Qantas", flights[0].Airline.Name)
}

func TestDepartures_RateLimitedThenOK(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	client := NewClient(srv.URL, "secret", 5*time.Second, 0, 3)
	client.wait = noWait(&waits)

	flights, err := client.Departures(context.Background(), "SYD", 10)
	require.NoError(t, err)
	assert.Empty(t, flights)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
}

func TestDepartures_RateLimitExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var waits []time.Duration
	client := NewClient(srv.URL, "secret", 5*time.Second, 0, 2)
	client.wait = noWait(&waits)

	_, err := client.Departures(context.Background(), "SYD", 10)
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{time.Second}, waits, "no backoff after the last attempt")
}

func TestDepartures_ServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second, 0, 3)
	_, err := client.Departures(context.Background(), "SYD", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int32(1), calls.Load(), "non-429 errors are not retried")
}

func TestDepartures_APIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"code": "invalid_access_key", "message": "bad key"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second, 0, 3)
	_, err := client.Departures(context.Background(), "SYD", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_access_key")
}

func TestDepartures_NoKey(t *testing.T) {
	client := NewClient("http://localhost", "", time.Second, 0, 3)
	_, err := client.Departures(context.Background(), "SYD", 10)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestToTable(t *testing.T) {
	srvFlights := []Flight{
		{FlightDate: "2024-06-01", Departure: Endpoint{IATA: "syd", Scheduled: "2024-06-01T08:35:00+00:00"}, Arrival: Endpoint{IATA: "mel"}},
		{FlightDate: "2024-06-02", Departure: Endpoint{IATA: "SYD", Scheduled: "not a time"}, Arrival: Endpoint{IATA: "AKL"}},
		{FlightDate: "2024-06-02", Departure: Endpoint{IATA: ""}, Arrival: Endpoint{IATA: "AKL"}},
	}
	srvFlights[0].Airline.Name = "Qantas"

	table := ToTable(srvFlights)
	require.Equal(t, 2, table.Len())
	assert.True(t, table.Has(models.ColPrice))
	assert.True(t, table.Has(models.ColFlightTime))

	first := table.Records[0]
	assert.Equal(t, "SYD", first.Origin)
	assert.Equal(t, "MEL", first.Destination)
	assert.Equal(t, "2024-06-01", first.RawDate)
	require.NotNil(t, first.FlightTime)
	assert.Equal(t, "08:35", *first.FlightTime)
	require.NotNil(t, first.Airline)
	assert.Equal(t, "Qantas", *first.Airline)
	assert.Nil(t, first.Price)
	assert.Nil(t, first.Duration)

	second := table.Records[1]
	assert.Nil(t, second.FlightTime)
	assert.Nil(t, second.Airline)
}
