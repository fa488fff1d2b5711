package homeassistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhagen/solarstats/internal/homeassistant"
	"github.com/mhagen/solarstats/internal/models"
)

func newTestClient(serverURL string) *homeassistant.Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := homeassistant.DefaultClientConfig()
	cfg.BaseURL = serverURL
	cfg.Token = "test-token"
	return homeassistant.NewClient(cfg, logger)
}

func TestRegisterStatistic(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody models.StatisticMetadata

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	meta := models.StatisticMetadata{
		StatisticID:       "solarstats:solar_production",
		Name:              "Solar production",
		UnitOfMeasurement: "kWh",
		HasSum:            true,
	}
	err := client.RegisterStatistic(context.Background(), meta)

	require.NoError(t, err)
	assert.Equal(t, "/api/statistics/meta", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, meta, gotBody)
}

func TestPushStatistics(t *testing.T) {
	var gotBody struct {
		StatisticID string                 `json:"statistic_id"`
		Statistics  []models.HourlySummary `json:"statistics"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/statistics", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	summaries := []models.HourlySummary{
		{Start: start, End: start.Add(time.Hour), Sum: models.Float(8)},
	}
	err := client.PushStatistics(context.Background(), "solarstats:solar_production", summaries)

	require.NoError(t, err)
	assert.Equal(t, "solarstats:solar_production", gotBody.StatisticID)
	require.Len(t, gotBody.Statistics, 1)
	require.NotNil(t, gotBody.Statistics[0].Sum)
	assert.InDelta(t, 8.0, *gotBody.Statistics[0].Sum, 1e-9)
}

func TestPushStatisticsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	err := client.PushStatistics(context.Background(), "solarstats:solar_production", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, homeassistant.ErrStatus)
}

func TestQueryHistory(t *testing.T) {
	start := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/history/statistics", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "solarstats:solar_production,solarstats:grid_export", q.Get("statistic_ids"))
		assert.Equal(t, start.Format(time.RFC3339), q.Get("start_time"))
		assert.Equal(t, "hour", q.Get("period"))
		assert.Empty(t, q.Get("end_time"))

		response := map[string]models.StatisticSeries{
			"solarstats:solar_production": {
				Metadata: models.StatisticMetadata{StatisticID: "solarstats:solar_production"},
				Statistics: []models.StatisticPoint{
					{Start: start, End: start.Add(time.Hour), Sum: models.Float(4.5)},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	series, err := client.QueryHistory(
		context.Background(),
		[]string{"solarstats:solar_production", "solarstats:grid_export"},
		start, time.Time{}, homeassistant.PeriodHour,
	)

	require.NoError(t, err)
	require.Contains(t, series, "solarstats:solar_production")
	points := series["solarstats:solar_production"].Statistics
	require.Len(t, points, 1)
	require.NotNil(t, points[0].Sum)
	assert.InDelta(t, 4.5, *points[0].Sum, 1e-9)
}

func TestQueryHistoryInvalidPeriod(t *testing.T) {
	client := newTestClient("http://localhost:1")

	_, err := client.QueryHistory(context.Background(), []string{"x"}, time.Now(), time.Time{}, "fortnight")

	require.Error(t, err)
	assert.ErrorIs(t, err, homeassistant.ErrRequest)
}

func TestQueryHistoryMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.QueryHistory(context.Background(), []string{"x"}, time.Now(), time.Time{}, homeassistant.PeriodDay)
	require.Error(t, err)
}

func TestGetState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states/sensor.solar_production_total", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"entity_id": "sensor.solar_production_total",
			"state":     "42.7",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	value, err := client.GetState(context.Background(), "sensor.solar_production_total")
	require.NoError(t, err)
	assert.InDelta(t, 42.7, value, 1e-9)
}

func TestGetStateNonNumeric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"entity_id": "sensor.battery_soc",
			"state":     "unavailable",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetState(context.Background(), "sensor.battery_soc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric state")
}
