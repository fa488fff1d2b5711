// Package homeassistant implements the REST client for the platform's
// long-term statistics API: metadata registration, hourly summary
// submission, and history queries. All requests carry bearer-token auth
// and pass through a shared outbound rate limiter.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mhagen/solarstats/internal/models"
)

var (
	ErrRequest = errors.New("error making statistics request")
	ErrStatus  = errors.New("error status from statistics API")
)

// Period selects the bucketing of a history query.
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) valid() bool {
	switch p {
	case "", PeriodHour, PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// ClientConfig holds connection options for the statistics API.
type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	RateLimit      float64 // requests per second
	RateLimitBurst int
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:        30 * time.Second,
		RateLimit:      5.0,
		RateLimitBurst: 10,
	}
}

// Client talks to the platform's statistics endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5.0
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 10
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		logger:     logger,
	}
}

// RegisterStatistic upserts one statistic's metadata with the external
// store. Any 2xx status counts as success.
func (c *Client) RegisterStatistic(ctx context.Context, meta models.StatisticMetadata) error {
	return c.postJSON(ctx, "/api/statistics/meta", meta)
}

type pushRequest struct {
	StatisticID string                 `json:"statistic_id"`
	Statistics  []models.HourlySummary `json:"statistics"`
}

// PushStatistics submits one identifier's hourly summaries in a single
// request. The caller is responsible for ordering the summaries.
func (c *Client) PushStatistics(ctx context.Context, statisticID string, summaries []models.HourlySummary) error {
	return c.postJSON(ctx, "/api/statistics", pushRequest{
		StatisticID: statisticID,
		Statistics:  summaries,
	})
}

// QueryHistory fetches per-identifier series from the history endpoint.
// An empty period leaves bucketing to the server.
func (c *Client) QueryHistory(ctx context.Context, statisticIDs []string, start, end time.Time, period Period) (map[string]models.StatisticSeries, error) {
	if !period.valid() {
		return nil, fmt.Errorf("%w: invalid period %q", ErrRequest, period)
	}

	params := url.Values{}
	params.Set("statistic_ids", strings.Join(statisticIDs, ","))
	params.Set("start_time", start.UTC().Format(time.RFC3339))
	if !end.IsZero() {
		params.Set("end_time", end.UTC().Format(time.RFC3339))
	}
	if period != "" {
		params.Set("period", string(period))
	}

	reqURL := fmt.Sprintf("%s/api/history/statistics?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: got %d", ErrStatus, resp.StatusCode)
	}

	var series map[string]models.StatisticSeries
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %v", err)
	}

	return series, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: got %d", ErrStatus, resp.StatusCode)
	}

	return nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
	}).Debug("Calling statistics API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	return resp, nil
}
