// Package rollup computes energy and financial totals over relative
// periods from the platform's statistics history. Query failures are
// logged and degrade to empty results; callers never see an error.
package rollup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/mhagen/solarstats/internal/homeassistant"
	"github.com/mhagen/solarstats/internal/models"
)

// HistoryClient is the query surface the rollup layer needs from the
// platform API.
type HistoryClient interface {
	QueryHistory(ctx context.Context, statisticIDs []string, start, end time.Time, period homeassistant.Period) (map[string]models.StatisticSeries, error)
}

// Window is a relative query period ending now.
type Window string

const (
	WindowToday      Window = "today"
	WindowLast7Days  Window = "last_7_days"
	WindowLast30Days Window = "last_30_days"
)

// EnergySummary is the rollup over the fixed energy/financial catalog.
type EnergySummary struct {
	SolarProductionKWh  float64 `json:"solar_production_kwh"`
	GridImportKWh       float64 `json:"grid_import_kwh"`
	GridExportKWh       float64 `json:"grid_export_kwh"`
	BatteryChargeKWh    float64 `json:"battery_charge_kwh"`
	BatteryDischargeKWh float64 `json:"battery_discharge_kwh"`
	CostTotal           float64 `json:"cost_total"`
	CompensationTotal   float64 `json:"compensation_total"`
	SelfConsumptionPct  float64 `json:"self_consumption_pct"`
}

// Service answers rollup queries, caching raw history responses.
type Service struct {
	client HistoryClient
	cache  *lru.Cache
	logger *logrus.Logger
	now    func() time.Time
}

func NewService(client HistoryClient, cacheSize int, logger *logrus.Logger) (*Service, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		client: client,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}, nil
}

// History wraps the client's history query with caching and the module's
// swallow-errors contract: on any failure the result is empty, never an
// error.
func (s *Service) History(ctx context.Context, statisticIDs []string, start, end time.Time, period homeassistant.Period) map[string]models.StatisticSeries {
	key := s.cacheKey(statisticIDs, start, end, period)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(map[string]models.StatisticSeries)
	}

	series, err := s.client.QueryHistory(ctx, statisticIDs, start, end, period)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"statistic_ids": statisticIDs,
			"error":         err,
		}).Error("History query failed, returning empty result")
		return map[string]models.StatisticSeries{}
	}

	s.cache.Add(key, series)
	return series
}

// EnergySummary sums each catalog identifier's "sum" values over the
// window and derives the self-consumption ratio.
func (s *Service) EnergySummary(ctx context.Context, window Window) EnergySummary {
	start, period := s.windowBounds(window)

	ids := []string{
		models.StatSolarProduction,
		models.StatGridImport,
		models.StatGridExport,
		models.StatBatteryCharge,
		models.StatBatteryDischarge,
		models.StatEnergyCost,
		models.StatCompensation,
	}

	series := s.History(ctx, ids, start, time.Time{}, period)

	summary := EnergySummary{
		SolarProductionKWh:  sumSeries(series[models.StatSolarProduction]),
		GridImportKWh:       sumSeries(series[models.StatGridImport]),
		GridExportKWh:       sumSeries(series[models.StatGridExport]),
		BatteryChargeKWh:    sumSeries(series[models.StatBatteryCharge]),
		BatteryDischargeKWh: sumSeries(series[models.StatBatteryDischarge]),
		CostTotal:           sumSeries(series[models.StatEnergyCost]),
		CompensationTotal:   sumSeries(series[models.StatCompensation]),
	}
	summary.SelfConsumptionPct = SelfConsumptionRatio(summary.SolarProductionKWh, summary.GridExportKWh)

	return summary
}

// SelfConsumptionRatio is the share of produced solar energy consumed
// on-site, as a percentage. Zero production yields zero, not a division
// by zero.
func SelfConsumptionRatio(production, gridExport float64) float64 {
	if production == 0 {
		return 0
	}
	return (production - gridExport) / production * 100
}

func sumSeries(series models.StatisticSeries) float64 {
	total := 0.0
	for _, p := range series.Statistics {
		if p.Sum != nil {
			total += *p.Sum
		}
	}
	return total
}

// windowBounds maps a relative window onto a day-aligned start and a
// bucketing period: hourly for today, daily for the longer windows.
func (s *Service) windowBounds(window Window) (time.Time, homeassistant.Period) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch window {
	case WindowLast7Days:
		return midnight.AddDate(0, 0, -6), homeassistant.PeriodDay
	case WindowLast30Days:
		return midnight.AddDate(0, 0, -29), homeassistant.PeriodDay
	default:
		return midnight, homeassistant.PeriodHour
	}
}

// cacheKey folds the query parameters plus the current hour, so stale
// entries age out of relevance at the same cadence new buckets appear.
func (s *Service) cacheKey(statisticIDs []string, start, end time.Time, period homeassistant.Period) string {
	params, _ := json.Marshal(struct {
		IDs    string
		Start  time.Time
		End    time.Time
		Period homeassistant.Period
		Hour   time.Time
	}{strings.Join(statisticIDs, ","), start, end, period, s.now().Truncate(time.Hour)})
	return fmt.Sprintf("history:%s", params)
}
