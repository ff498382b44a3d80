package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/finnews-io/finnews/internal/fetch"
)

type allowAll struct{}

func (allowAll) Check(string) error { return nil }

func newTestFetcher() *fetch.Fetcher {
	return fetch.NewFetcher(fetch.NewCache(64), allowAll{},
		fetch.WithBackoff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }))
}

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"currency": "USD"},
			"timestamp": [1700000000, 1700086400, 1700172800],
			"indicators": {
				"quote": [{
					"open":   [100.0, 101.5, null],
					"high":   [102.0, 103.0, null],
					"low":    [99.0, 100.5, null],
					"close":  [101.0, 102.5, null],
					"volume": [1000000, 1200000, null]
				}]
			}
		}],
		"error": null
	}
}`

func newChartServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGetChart(t *testing.T) {
	server := newChartServer(t, chartBody, http.StatusOK)
	defer server.Close()

	client := NewClient(newTestFetcher(), WithChartBaseURL(server.URL))

	series, err := client.GetChart(context.Background(), "AAPL", "1mo", "1d")
	if err != nil {
		t.Fatalf("GetChart failed: %v", err)
	}

	if series.Symbol != "AAPL" {
		t.Errorf("Expected symbol AAPL, got %s", series.Symbol)
	}
	if series.Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", series.Currency)
	}
	if len(series.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series.Points))
	}

	first := series.Points[0]
	if first.Close == nil || *first.Close != 101.0 {
		t.Errorf("Expected first close 101.0, got %v", first.Close)
	}
	if first.Volume == nil || *first.Volume != 1000000 {
		t.Errorf("Expected first volume 1000000, got %v", first.Volume)
	}

	// The third observation is null across the board and must stay nil.
	last := series.Points[2]
	if last.Close != nil {
		t.Errorf("Expected nil close for null observation, got %v", *last.Close)
	}
}

func TestGetChartSummary(t *testing.T) {
	server := newChartServer(t, chartBody, http.StatusOK)
	defer server.Close()

	client := NewClient(newTestFetcher(), WithChartBaseURL(server.URL))

	series, err := client.GetChart(context.Background(), "AAPL", "1mo", "1d")
	if err != nil {
		t.Fatalf("GetChart failed: %v", err)
	}

	s := series.Summary
	if s.Count != 3 {
		t.Errorf("Expected summary count 3, got %d", s.Count)
	}
	if s.StartClose == nil || *s.StartClose != 101.0 {
		t.Errorf("Expected start close 101.0, got %v", s.StartClose)
	}
	if s.EndClose == nil || *s.EndClose != 102.5 {
		t.Errorf("Expected end close 102.5, got %v", s.EndClose)
	}
	if s.PctChange == nil {
		t.Fatal("Expected pct change, got nil")
	}
	want := (102.5 - 101.0) / 101.0 * 100.0
	if diff := *s.PctChange - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected pct change %.6f, got %.6f", want, *s.PctChange)
	}
}

func TestGetChartDefaults(t *testing.T) {
	var gotRange, gotInterval string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), WithChartBaseURL(server.URL))

	if _, err := client.GetChart(context.Background(), "AAPL", "", ""); err != nil {
		t.Fatalf("GetChart failed: %v", err)
	}
	if gotRange != "1mo" {
		t.Errorf("Expected default range 1mo, got %s", gotRange)
	}
	if gotInterval != "1d" {
		t.Errorf("Expected default interval 1d, got %s", gotInterval)
	}
}

func TestGetChartEmptyResult(t *testing.T) {
	body := `{"chart": {"result": [], "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`
	server := newChartServer(t, body, http.StatusOK)
	defer server.Close()

	client := NewClient(newTestFetcher(), WithChartBaseURL(server.URL))

	_, err := client.GetChart(context.Background(), "NOPE", "1mo", "1d")
	if err == nil {
		t.Fatal("Expected error for empty result")
	}
}

func TestGetChartFatalStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), WithChartBaseURL(server.URL))

	_, err := client.GetChart(context.Background(), "NOPE", "1mo", "1d")
	if err == nil {
		t.Fatal("Expected error for 404")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 call for non-retryable status, got %d", calls)
	}
}

const optionsBody = `{
	"optionChain": {
		"result": [{
			"expirationDates": [1703808000, 1704412800],
			"options": [{
				"expirationDate": 1703808000,
				"calls": [{
					"contractSymbol": "AAPL231229C00190000",
					"strike": 190.0,
					"lastPrice": 5.2,
					"bid": 5.1,
					"ask": 5.3,
					"volume": 1500,
					"openInterest": 9000,
					"impliedVolatility": 0.25,
					"inTheMoney": true
				}],
				"puts": [{
					"contractSymbol": "AAPL231229P00190000",
					"strike": 190.0,
					"lastPrice": 2.1,
					"bid": 2.0,
					"ask": 2.2,
					"volume": 800,
					"openInterest": 4000,
					"impliedVolatility": 0.22,
					"inTheMoney": false
				}]
			}]
		}]
	}
}`

func TestGetOptionsChain(t *testing.T) {
	server := newChartServer(t, optionsBody, http.StatusOK)
	defer server.Close()

	client := NewClient(newTestFetcher(), WithOptionsBaseURL(server.URL))

	chain, err := client.GetOptionsChain(context.Background(), "AAPL", "")
	if err != nil {
		t.Fatalf("GetOptionsChain failed: %v", err)
	}

	if chain.Symbol != "AAPL" {
		t.Errorf("Expected symbol AAPL, got %s", chain.Symbol)
	}
	if len(chain.Expirations) != 2 {
		t.Errorf("Expected 2 expirations, got %d", len(chain.Expirations))
	}
	if len(chain.Calls) != 1 || len(chain.Puts) != 1 {
		t.Fatalf("Expected 1 call and 1 put, got %d/%d", len(chain.Calls), len(chain.Puts))
	}
	call := chain.Calls[0]
	if call.Strike != 190.0 {
		t.Errorf("Expected strike 190.0, got %f", call.Strike)
	}
	if !call.InTheMoney {
		t.Error("Expected call in the money")
	}
	if chain.Puts[0].ImpliedVol != 0.22 {
		t.Errorf("Expected put IV 0.22, got %f", chain.Puts[0].ImpliedVol)
	}
}

func TestGetOptionsChainExpiration(t *testing.T) {
	var gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		w.Write([]byte(optionsBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), WithOptionsBaseURL(server.URL))

	if _, err := client.GetOptionsChain(context.Background(), "AAPL", "2023-12-29"); err != nil {
		t.Fatalf("GetOptionsChain failed: %v", err)
	}

	want := time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC).Unix()
	if gotDate == "" {
		t.Fatal("Expected date query parameter")
	}
	if gotDate != "1703808000" {
		t.Errorf("Expected date %d, got %s", want, gotDate)
	}
}

func TestGetOptionsChainBadExpiration(t *testing.T) {
	client := NewClient(newTestFetcher())

	_, err := client.GetOptionsChain(context.Background(), "AAPL", "29-12-2023")
	if err == nil {
		t.Fatal("Expected error for malformed expiration")
	}
}

func TestGetChartCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), WithChartBaseURL(server.URL))

	for i := 0; i < 3; i++ {
		if _, err := client.GetChart(context.Background(), "AAPL", "1mo", "1d"); err != nil {
			t.Fatalf("GetChart failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 upstream call for repeated identical requests, got %d", calls)
	}
}
