package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"energycli/internal/files"
	"energycli/pkg/contracts/domain"
)

// dateLayouts are the accepted timestamp representations, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// CleanStats accumulates per-reason drop counts for one cleaning pass.
type CleanStats struct {
	RowsIn           int
	RowsKept         int
	DroppedBadDate   int
	DroppedBadKWH    int
	DroppedNegative  int
	DroppedNoName    int
	DroppedDuplicate int
}

// Dropped returns the total number of rows excluded from the cleaned set.
func (s CleanStats) Dropped() int {
	return s.DroppedBadDate + s.DroppedBadKWH + s.DroppedNegative + s.DroppedNoName + s.DroppedDuplicate
}

// Cleaner transforms raw readings into validated, deduplicated,
// time-ordered readings.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a new cleaner instance
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean validates every raw reading and returns the surviving readings
// sorted by timestamp then building. Rows with an unparseable date, a
// non-numeric, non-finite or negative KWH value, or no resolvable building
// identifier are dropped. Duplicate (timestamp, building) pairs keep the
// last-seen row.
func (c *Cleaner) Clean(ctx context.Context, raws []domain.RawReading) ([]domain.Reading, CleanStats) {
	stats := CleanStats{RowsIn: len(raws)}

	index := make(map[domain.ReadingKey]int)
	cleaned := make([]domain.Reading, 0, len(raws))

	for _, raw := range raws {
		ts, ok := parseTimestamp(raw.Timestamp)
		if !ok {
			stats.DroppedBadDate++
			continue
		}

		kwh, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw.KWH), ",", ""), 64)
		if err != nil || math.IsNaN(kwh) || math.IsInf(kwh, 0) {
			stats.DroppedBadKWH++
			continue
		}
		if kwh < 0 {
			stats.DroppedNegative++
			continue
		}

		building := strings.TrimSpace(raw.Building)
		if building == "" {
			building = files.Stem(raw.SourceFile)
		}
		if building == "" {
			stats.DroppedNoName++
			continue
		}

		reading := domain.Reading{Timestamp: ts, Building: building, KWH: kwh}
		if i, seen := index[reading.Key()]; seen {
			// Last-seen wins.
			cleaned[i] = reading
			stats.DroppedDuplicate++
			continue
		}
		index[reading.Key()] = len(cleaned)
		cleaned = append(cleaned, reading)
	}

	sort.Slice(cleaned, func(i, j int) bool {
		if !cleaned[i].Timestamp.Equal(cleaned[j].Timestamp) {
			return cleaned[i].Timestamp.Before(cleaned[j].Timestamp)
		}
		return cleaned[i].Building < cleaned[j].Building
	})

	stats.RowsKept = len(cleaned)
	c.logStats(ctx, stats)

	return cleaned, stats
}

func (c *Cleaner) logStats(ctx context.Context, stats CleanStats) {
	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_kept", stats.RowsKept))

	if stats.Dropped() == 0 {
		return
	}
	c.logger.WarnContext(ctx, "dropped invalid rows",
		slog.Int("bad_date", stats.DroppedBadDate),
		slog.Int("bad_kwh", stats.DroppedBadKWH),
		slog.Int("negative_kwh", stats.DroppedNegative),
		slog.Int("no_building", stats.DroppedNoName),
		slog.Int("duplicate", stats.DroppedDuplicate))
}

// parseTimestamp tries each accepted layout and normalizes to UTC.
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
