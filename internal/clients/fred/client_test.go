package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff/v4"

	"github.com/finnews-io/finnews/internal/fetch"
	"github.com/finnews-io/finnews/internal/interfaces"
)

type allowAll struct{}

func (allowAll) Check(string) error { return nil }

func newTestFetcher() *fetch.Fetcher {
	return fetch.NewFetcher(fetch.NewCache(64), allowAll{},
		fetch.WithBackoff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }))
}

const observationsBody = `{
	"units": "Percent",
	"observations": [
		{"date": "2024-01-01", "value": "5.33"},
		{"date": "2024-02-01", "value": "."},
		{"date": "2024-03-01", "value": "5.29"}
	]
}`

func TestGetSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("file_type") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(observationsBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "test-key", WithBaseURL(server.URL))

	series, err := client.GetSeries(context.Background(), "DFF")
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}

	if series.SeriesID != "DFF" {
		t.Errorf("Expected series id DFF, got %s", series.SeriesID)
	}
	if series.Unit != "Percent" {
		t.Errorf("Expected unit Percent, got %s", series.Unit)
	}
	if len(series.Observations) != 3 {
		t.Fatalf("Expected 3 observations, got %d", len(series.Observations))
	}
	if series.Observations[0].Value == nil || *series.Observations[0].Value != 5.33 {
		t.Errorf("Expected first value 5.33, got %v", series.Observations[0].Value)
	}
	// "." marks a missing observation and must map to nil.
	if series.Observations[1].Value != nil {
		t.Errorf("Expected nil for missing observation, got %v", *series.Observations[1].Value)
	}
}

func TestGetSeriesMissingKey(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(observationsBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), "DFF")
	if !errors.Is(err, fetch.ErrMissingCredential) {
		t.Fatalf("Expected ErrMissingCredential, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no upstream call without a key, got %d", calls)
	}
}

func TestGetSeriesOptions(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"observation_start":  q.Get("observation_start"),
			"observation_end":    q.Get("observation_end"),
			"frequency":          q.Get("frequency"),
			"aggregation_method": q.Get("aggregation_method"),
		}
		w.Write([]byte(observationsBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "test-key", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), "GDP",
		interfaces.WithObservationRange("2020-01-01", "2024-01-01"),
		interfaces.WithFrequency("q"),
		interfaces.WithAggregationMethod("avg"))
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}

	if got["observation_start"] != "2020-01-01" || got["observation_end"] != "2024-01-01" {
		t.Errorf("Unexpected observation range: %v", got)
	}
	if got["frequency"] != "q" {
		t.Errorf("Expected frequency q, got %s", got["frequency"])
	}
	if got["aggregation_method"] != "avg" {
		t.Errorf("Expected aggregation avg, got %s", got["aggregation_method"])
	}
}

func TestGetSeriesAPIError(t *testing.T) {
	body := `{"error_code": 400, "error_message": "Bad Request. The series does not exist."}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "test-key", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("Expected error for FRED error payload")
	}
}

func TestGetSeriesRetriesExhausted(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "test-key", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), "DFF")
	if !errors.Is(err, fetch.ErrRetriesExhausted) {
		t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}
