package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/service"
)

func TestHeuristicForecast(t *testing.T) {
	now := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{ID: "t1", Date: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), Description: "rent", Amount: -300, Category: "Housing"},
		{ID: "t2", Date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), Description: "old", Amount: -999, Category: "Shopping"},
	}

	forecast := HeuristicForecast("alice", txns, 7, now)

	// 300 over a 30-day lookback; the December row is outside it.
	if forecast.DailyAverage != 10 {
		t.Errorf("DailyAverage = %v, want 10", forecast.DailyAverage)
	}
	if forecast.ProjectedSpend != 70 {
		t.Errorf("ProjectedSpend = %v, want 70", forecast.ProjectedSpend)
	}
	if forecast.Source != "heuristic" {
		t.Errorf("Source = %q, want heuristic", forecast.Source)
	}
	if forecast.HorizonDays != 7 {
		t.Errorf("HorizonDays = %d, want 7", forecast.HorizonDays)
	}
}

func TestHeuristicForecastDefaultsHorizon(t *testing.T) {
	forecast := HeuristicForecast("alice", nil, 0, time.Now().UTC())
	if forecast.HorizonDays != 7 {
		t.Errorf("HorizonDays = %d, want default 7", forecast.HorizonDays)
	}
	if forecast.ProjectedSpend != 0 {
		t.Errorf("ProjectedSpend = %v, want 0 on an empty ledger", forecast.ProjectedSpend)
	}
}

func TestClientCallPollCycle(t *testing.T) {
	var runCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forecasts/run":
			if r.Method != http.MethodPost {
				t.Errorf("run method = %s, want POST", r.Method)
			}
			var req struct {
				UserID      string `json:"user_id"`
				HorizonDays int    `json:"horizon_days"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad run body: %v", err)
			}
			if req.UserID != "alice" || req.HorizonDays != 7 {
				t.Errorf("run request = %+v", req)
			}
			runCalls++
			w.WriteHeader(http.StatusAccepted)
		case "/forecasts/latest":
			if got := r.URL.Query().Get("user_id"); got != "alice" {
				t.Errorf("poll user_id = %q, want alice", got)
			}
			_ = json.NewEncoder(w).Encode(Forecast{
				UserID:         "alice",
				HorizonDays:    7,
				ProjectedSpend: 84,
				DailyAverage:   12,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	if err := client.RequestForecast(ctx, "alice", 7); err != nil {
		t.Fatalf("RequestForecast: %v", err)
	}
	if runCalls != 1 {
		t.Fatalf("run called %d times, want 1", runCalls)
	}

	forecast, err := client.LatestForecast(ctx, "alice")
	if err != nil {
		t.Fatalf("LatestForecast: %v", err)
	}
	if forecast.ProjectedSpend != 84 {
		t.Errorf("ProjectedSpend = %v, want 84", forecast.ProjectedSpend)
	}
	if forecast.Source != "oracle" {
		t.Errorf("Source = %q, want oracle", forecast.Source)
	}
}

func TestLatestForecastNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.LatestForecast(context.Background(), "alice")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestForecastWithFallbackStopsOnDefinitiveAnswer(t *testing.T) {
	// The run is accepted but no forecast ever exists for the user. That is a
	// definitive answer, not an outage: the client must fall back to the
	// heuristic without retrying the cycle.
	var runCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forecasts/run":
			runCalls++
			w.WriteHeader(http.StatusAccepted)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	store := service.NewMockStorage()
	_ = store.SaveTransaction(context.Background(), "alice", model.Transaction{
		ID: "t1", Date: time.Now().UTC().AddDate(0, 0, -1), Description: "rent", Amount: -300, Category: "Housing",
	})

	client := NewClient(server.URL)
	forecast, err := client.ForecastWithFallback(context.Background(), store, "alice", 7)
	if err != nil {
		t.Fatalf("ForecastWithFallback: %v", err)
	}
	if forecast.Source != "heuristic" {
		t.Errorf("Source = %q, want heuristic", forecast.Source)
	}
	if runCalls != 1 {
		t.Errorf("run called %d times, want 1 (no retries on a definitive answer)", runCalls)
	}
}

func TestRequestForecastServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.RequestForecast(context.Background(), "alice", 7)
	if !errors.Is(err, common.ErrOracleUnavailable) {
		t.Errorf("err = %v, want ErrOracleUnavailable", err)
	}
}
