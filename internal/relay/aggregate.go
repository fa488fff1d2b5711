package relay

import (
	"sort"
	"time"

	"github.com/mhagen/solarstats/internal/models"
)

// hourBucket accumulates one clock hour's readings before summary emission.
type hourBucket struct {
	start     time.Time
	meanTotal float64
	meanCount int
	min       float64
	max       float64
	sumTotal  float64
	hasSum    bool
	lastState *float64
}

func (b *hourBucket) add(r models.Reading) {
	if r.Mean != nil {
		v := *r.Mean
		if b.meanCount == 0 || v < b.min {
			b.min = v
		}
		if b.meanCount == 0 || v > b.max {
			b.max = v
		}
		b.meanTotal += v
		b.meanCount++
	}
	if r.Sum != nil {
		b.sumTotal += *r.Sum
		b.hasSum = true
	}
	if r.State != nil {
		b.lastState = r.State
	}
}

func (b *hourBucket) summary() models.HourlySummary {
	s := models.HourlySummary{
		Start: b.start,
		End:   b.start.Add(time.Hour),
		State: b.lastState,
	}
	if b.meanCount > 0 {
		s.Mean = models.Float(b.meanTotal / float64(b.meanCount))
		s.Min = models.Float(b.min)
		s.Max = models.Float(b.max)
	}
	if b.hasSum {
		s.Sum = models.Float(b.sumTotal)
	}
	return s
}

// aggregateHourly partitions readings into UTC clock-hour buckets and
// summarizes each bucket: arithmetic mean plus min/max over mean-bearing
// readings, arithmetic sum over sum-bearing readings. Readings carrying
// neither contribute nothing. Summaries come back in ascending start order.
func aggregateHourly(readings []models.Reading) []models.HourlySummary {
	buckets := make(map[time.Time]*hourBucket)

	for _, r := range readings {
		start := r.Start.UTC().Truncate(time.Hour)
		b, ok := buckets[start]
		if !ok {
			b = &hourBucket{start: start}
			buckets[start] = b
		}
		b.add(r)
	}

	summaries := make([]models.HourlySummary, 0, len(buckets))
	for _, b := range buckets {
		s := b.summary()
		if s.Mean == nil && s.Sum == nil {
			continue
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Start.Before(summaries[j].Start)
	})

	return summaries
}
