package domain

import (
	"time"
)

// RawReading is a single unvalidated row as read from an input file.
// Timestamp and KWH are kept as raw strings; the cleaner owns parsing.
type RawReading struct {
	Timestamp  string `json:"timestamp"`
	Building   string `json:"building"`
	KWH        string `json:"kwh"`
	SourceFile string `json:"source_file"`
}

// Reading is a validated meter reading. Every Reading has a parsed UTC
// timestamp, a non-empty building identifier and a finite, non-negative
// energy value.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Building  string    `json:"building"`
	KWH       float64   `json:"kwh"`
}

// Key identifies a reading for deduplication purposes.
func (r Reading) Key() ReadingKey {
	return ReadingKey{Timestamp: r.Timestamp, Building: r.Building}
}

// ReadingKey is the (timestamp, building) identity of a reading.
type ReadingKey struct {
	Timestamp time.Time
	Building  string
}

// BuildingSummary holds descriptive statistics for one building across the
// whole dataset.
type BuildingSummary struct {
	Building string  `json:"building"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Sum      float64 `json:"sum"`
	Count    int     `json:"count"`
}

// PeriodAggregate holds energy totals for one (period, building) bucket.
// PeriodStart labels the bucket: the calendar day for daily granularity,
// the ISO-week Monday for weekly granularity.
type PeriodAggregate struct {
	PeriodStart time.Time `json:"period_start"`
	Building    string    `json:"building"`
	Sum         float64   `json:"sum"`
	Mean        float64   `json:"mean"`
	Count       int       `json:"count"`
}

// Granularity is the time-bucket size used when resampling readings.
type Granularity string

const (
	GranularityDay  Granularity = "day"
	GranularityWeek Granularity = "week"
)

// Valid reports whether g is a supported granularity.
func (g Granularity) Valid() bool {
	return g == GranularityDay || g == GranularityWeek
}

// Bucket maps a timestamp to the start of its period in UTC.
func (g Granularity) Bucket(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if g == GranularityWeek {
		// Align to Monday, the start of the ISO week.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	}
	return day
}
