package ecos

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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

const statisticBody = `{
	"StatisticSearch": {
		"list_total_count": 3,
		"row": [
			{"STAT_NAME": "한국은행 기준금리", "UNIT_NAME": "연%", "TIME": "202401", "DATA_VALUE": "3.50"},
			{"STAT_NAME": "한국은행 기준금리", "UNIT_NAME": "연%", "TIME": "202402", "DATA_VALUE": "3.50"},
			{"STAT_NAME": "한국은행 기준금리", "UNIT_NAME": "연%", "TIME": "202403", "DATA_VALUE": ""}
		]
	}
}`

func TestGetSeries(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(statisticBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "test-key", WithBaseURL(server.URL))

	series, err := client.GetSeries(context.Background(), interfaces.ECOSQuery{
		StatCode:  "722Y001",
		Start:     "202401",
		End:       "202403",
		Cycle:     "M",
		ItemCode1: "0101000",
	})
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}

	if !strings.Contains(gotPath, "/api/StatisticSearch/test-key/json/kr/1/10000/722Y001/M/202401/202403/0101000") {
		t.Errorf("Unexpected request path: %s", gotPath)
	}

	if series.SeriesID != "722Y001" {
		t.Errorf("Expected series id 722Y001, got %s", series.SeriesID)
	}
	if series.Title != "한국은행 기준금리" {
		t.Errorf("Unexpected title: %s", series.Title)
	}
	if series.Unit != "연%" {
		t.Errorf("Unexpected unit: %s", series.Unit)
	}
	if len(series.Observations) != 3 {
		t.Fatalf("Expected 3 observations, got %d", len(series.Observations))
	}
	if series.Observations[0].Value == nil || *series.Observations[0].Value != 3.5 {
		t.Errorf("Expected first value 3.5, got %v", series.Observations[0].Value)
	}
	if series.Observations[2].Value != nil {
		t.Errorf("Expected nil for blank value, got %v", *series.Observations[2].Value)
	}
}

func TestGetSeriesMissingKey(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(statisticBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), interfaces.ECOSQuery{StatCode: "722Y001"})
	if !errors.Is(err, fetch.ErrMissingCredential) {
		t.Fatalf("Expected ErrMissingCredential, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no upstream call without a key, got %d", calls)
	}
}

func TestGetSeriesResultError(t *testing.T) {
	body := `{"RESULT": {"CODE": "INFO-100", "MESSAGE": "인증키가 유효하지 않습니다."}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "bad-key", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), interfaces.ECOSQuery{StatCode: "722Y001"})
	if err == nil {
		t.Fatal("Expected error for RESULT payload")
	}
	if !strings.Contains(err.Error(), "INFO-100") {
		t.Errorf("Expected error to carry the ECOS code, got: %v", err)
	}
}

func TestGetSeriesDefaultCycle(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(statisticBody))
	}))
	defer server.Close()

	client := NewClient(newTestFetcher(), "test-key", WithBaseURL(server.URL))

	_, err := client.GetSeries(context.Background(), interfaces.ECOSQuery{
		StatCode: "722Y001",
		Start:    "202401",
		End:      "202403",
	})
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if !strings.Contains(gotPath, "/722Y001/M/") {
		t.Errorf("Expected default monthly cycle in path: %s", gotPath)
	}
}

func TestGetSeriesMissingStatCode(t *testing.T) {
	client := NewClient(newTestFetcher(), "test-key")

	_, err := client.GetSeries(context.Background(), interfaces.ECOSQuery{})
	if err == nil {
		t.Fatal("Expected error for missing stat code")
	}
}
