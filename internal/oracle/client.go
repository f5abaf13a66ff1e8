// Package oracle consumes the external spend-prediction service over its
// call/poll HTTP contract. The oracle is advisory only: it never participates
// in settlement, and when it is unreachable forecasts degrade to a local
// heuristic built from the ledger itself.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/service"
)

// Forecast is the oracle's projected spend for a user.
type Forecast struct {
	GeneratedAt    time.Time `json:"generated_at"`
	UserID         string    `json:"user_id"`
	Source         string    `json:"source"` // "oracle" or "heuristic"
	HorizonDays    int       `json:"horizon_days"`
	ProjectedSpend float64   `json:"projected_spend"`
	DailyAverage   float64   `json:"daily_average"`
}

// Client calls the prediction backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an oracle client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type runRequest struct {
	UserID      string `json:"user_id"`
	HorizonDays int    `json:"horizon_days"`
}

// RequestForecast asks the backend to start a forecast run for the user.
// Runs are asynchronous; the result is fetched with LatestForecast.
func (c *Client) RequestForecast(ctx context.Context, userID string, horizonDays int) error {
	body, err := json.Marshal(runRequest{UserID: userID, HorizonDays: horizonDays})
	if err != nil {
		return fmt.Errorf("failed to marshal forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/forecasts/run", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrOracleUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: forecast run returned status %d", common.ErrOracleUnavailable, resp.StatusCode)
	}
	return nil
}

// LatestForecast polls for the most recent completed forecast.
func (c *Client) LatestForecast(ctx context.Context, userID string) (*Forecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/forecasts/latest?user_id=%s", c.baseURL, userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOracleUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no forecast available for %s: %w", userID, common.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: forecast poll returned status %d", common.ErrOracleUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast response: %w", err)
	}

	var forecast Forecast
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	forecast.Source = "oracle"
	return &forecast, nil
}

// ForecastWithFallback runs the full call/poll cycle with retries and falls
// back to the local heuristic when the oracle stays unreachable. Failures are
// classified before retrying: a definitive answer such as "no forecast
// exists" skips straight to the fallback instead of burning attempts. The
// returned forecast's Source field tells the caller which path produced it.
func (c *Client) ForecastWithFallback(ctx context.Context, transactions service.TransactionStore, userID string, horizonDays int) (*Forecast, error) {
	var forecast *Forecast
	err := common.WithRetry(ctx, func() error {
		if reqErr := c.RequestForecast(ctx, userID, horizonDays); reqErr != nil {
			return &common.RetryableError{Err: reqErr, Retryable: common.IsRetryable(reqErr)}
		}
		got, pollErr := c.LatestForecast(ctx, userID)
		if pollErr != nil {
			return &common.RetryableError{Err: pollErr, Retryable: common.IsRetryable(pollErr)}
		}
		forecast = got
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond})
	if err == nil {
		return forecast, nil
	}

	txns, listErr := transactions.ListTransactions(ctx, userID)
	if listErr != nil {
		return nil, fmt.Errorf("oracle unavailable and ledger unreadable: %w", listErr)
	}
	return HeuristicForecast(userID, txns, horizonDays, time.Now().UTC()), nil
}
