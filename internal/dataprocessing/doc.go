// Package dataprocessing provides the core pipeline stages for campus
// electricity-usage data: loading raw readings from input files, cleaning
// and validating them, and computing time-based aggregates.
//
// # Architecture
//
// The package is organized around three components:
//
// 1. Sources: read raw readings from CSV/Excel files, or synthesize a
// sample dataset when no input exists
// 2. Cleaner: parses and validates raw rows, dropping the invalid ones
// 3. Aggregator: resamples cleaned readings by period and building
//
// # Data Flow
//
//	Input files → Sources → RawReadings → Cleaner → Readings → Aggregator → Aggregates/Summaries
//
// # Error Handling
//
// Sources never fail the run for a single bad file or row; they skip and
// log. The cleaner accumulates per-reason drop counts in CleanStats so the
// caller can surface them as warnings.
package dataprocessing
