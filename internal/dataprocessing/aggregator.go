package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"energycli/pkg/contracts/domain"
)

// CampusTotal is the total consumption across all buildings for one period.
type CampusTotal struct {
	PeriodStart time.Time
	Sum         float64
}

// TrendStats summarizes a series of campus period totals.
type TrendStats struct {
	Mean float64
	Max  float64
}

// Aggregator resamples cleaned readings by time bucket and building and
// computes per-building descriptive statistics.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator instance
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate buckets readings by (period, building) at the given
// granularity. Buildings with no readings in a period are omitted, not
// zero-filled. Output is sorted by period then building.
func (a *Aggregator) Aggregate(ctx context.Context, readings []domain.Reading, g domain.Granularity) []domain.PeriodAggregate {
	type bucketKey struct {
		period   time.Time
		building string
	}

	buckets := make(map[bucketKey]*domain.PeriodAggregate)
	for _, r := range readings {
		key := bucketKey{period: g.Bucket(r.Timestamp), building: r.Building}
		agg, ok := buckets[key]
		if !ok {
			agg = &domain.PeriodAggregate{PeriodStart: key.period, Building: r.Building}
			buckets[key] = agg
		}
		agg.Sum += r.KWH
		agg.Count++
	}

	aggregates := make([]domain.PeriodAggregate, 0, len(buckets))
	for _, agg := range buckets {
		agg.Mean = agg.Sum / float64(agg.Count)
		aggregates = append(aggregates, *agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if !aggregates[i].PeriodStart.Equal(aggregates[j].PeriodStart) {
			return aggregates[i].PeriodStart.Before(aggregates[j].PeriodStart)
		}
		return aggregates[i].Building < aggregates[j].Building
	})

	a.logger.InfoContext(ctx, "aggregated readings",
		slog.String("granularity", string(g)),
		slog.Int("bucket_count", len(aggregates)))

	return aggregates
}

// Summarize computes mean, min, max, sum and count per building across
// the whole dataset, sorted by building name.
func (a *Aggregator) Summarize(ctx context.Context, readings []domain.Reading) []domain.BuildingSummary {
	byBuilding := lo.GroupBy(readings, func(r domain.Reading) string { return r.Building })

	buildings := lo.Keys(byBuilding)
	sort.Strings(buildings)

	summaries := make([]domain.BuildingSummary, 0, len(buildings))
	for _, building := range buildings {
		rows := byBuilding[building]
		values := lo.Map(rows, func(r domain.Reading, _ int) float64 { return r.KWH })

		summary := domain.BuildingSummary{
			Building: building,
			Mean:     stat.Mean(values, nil),
			Min:      values[0],
			Max:      values[0],
			Count:    len(values),
		}
		for _, v := range values {
			summary.Sum += v
			if v < summary.Min {
				summary.Min = v
			}
			if v > summary.Max {
				summary.Max = v
			}
		}
		summaries = append(summaries, summary)
	}

	a.logger.InfoContext(ctx, "summarized buildings",
		slog.Int("building_count", len(summaries)))

	return summaries
}

// CampusTotals sums consumption across all buildings per period, sorted
// by period. It feeds the trend panel of the dashboard and the weekly
// trend line of the text summary.
func (a *Aggregator) CampusTotals(readings []domain.Reading, g domain.Granularity) []CampusTotal {
	sums := make(map[time.Time]float64)
	for _, r := range readings {
		sums[g.Bucket(r.Timestamp)] += r.KWH
	}

	totals := make([]CampusTotal, 0, len(sums))
	for period, sum := range sums {
		totals = append(totals, CampusTotal{PeriodStart: period, Sum: sum})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].PeriodStart.Before(totals[j].PeriodStart)
	})
	return totals
}

// Trend computes mean and max over a series of campus totals.
func Trend(totals []CampusTotal) TrendStats {
	if len(totals) == 0 {
		return TrendStats{}
	}
	values := lo.Map(totals, func(t CampusTotal, _ int) float64 { return t.Sum })
	trend := TrendStats{Mean: stat.Mean(values, nil), Max: values[0]}
	for _, v := range values {
		if v > trend.Max {
			trend.Max = v
		}
	}
	return trend
}

// PeakReading returns the single highest reading, if any.
func PeakReading(readings []domain.Reading) (domain.Reading, bool) {
	if len(readings) == 0 {
		return domain.Reading{}, false
	}
	peak := lo.MaxBy(readings, func(a, b domain.Reading) bool { return a.KWH > b.KWH })
	return peak, true
}
