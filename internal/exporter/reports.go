package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"energycli/internal/dataprocessing"
	apperrors "energycli/internal/errors"
	"energycli/pkg/contracts/domain"
)

// Fixed artifact names, written into the output directory.
const (
	CleanedDataFile     = "cleaned_energy_data.csv"
	BuildingSummaryFile = "building_summary.csv"
	TextSummaryFile     = "summary.txt"
	DashboardFile       = "dashboard.png"
)

// Reporter writes the tabular and text artifacts of a pipeline run.
type Reporter struct {
	outputDir string
	csv       *CSVWriter
	logger    *slog.Logger
}

// NewReporter creates a reporter writing into outputDir.
func NewReporter(outputDir string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		outputDir: outputDir,
		csv:       NewCSVWriter(outputDir),
		logger:    logger,
	}
}

// WriteCleanedData exports all cleaned readings, one row per record,
// sorted as the cleaner left them (by date, then building).
func (r *Reporter) WriteCleanedData(ctx context.Context, readings []domain.Reading) error {
	records := make([][]string, 0, len(readings))
	for _, reading := range readings {
		records = append(records, []string{
			formatTimestamp(reading),
			reading.Building,
			fmt.Sprintf("%.2f", reading.KWH),
		})
	}

	if err := r.csv.WriteSimpleCSV(CleanedDataFile, []string{"Date", "Building", "KWH"}, records); err != nil {
		return apperrors.NewStorageError("failed to write cleaned data CSV", err).
			WithContext("file", CleanedDataFile)
	}

	r.logger.InfoContext(ctx, "wrote cleaned data export",
		slog.String("file", CleanedDataFile),
		slog.Int("row_count", len(records)))
	return nil
}

// WriteBuildingSummary exports one row of descriptive statistics per
// building.
func (r *Reporter) WriteBuildingSummary(ctx context.Context, summaries []domain.BuildingSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Building,
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Max),
			fmt.Sprintf("%.2f", s.Sum),
			fmt.Sprintf("%d", s.Count),
		})
	}

	headers := []string{"Building", "Mean", "Min", "Max", "Sum", "Count"}
	if err := r.csv.WriteSimpleCSV(BuildingSummaryFile, headers, records); err != nil {
		return apperrors.NewStorageError("failed to write building summary CSV", err).
			WithContext("file", BuildingSummaryFile)
	}

	r.logger.InfoContext(ctx, "wrote building summary export",
		slog.String("file", BuildingSummaryFile),
		slog.Int("building_count", len(records)))
	return nil
}

// WriteTextSummary writes the plain-text executive summary: totals, date
// range, top and bottom consumers, peak reading and the weekly trend.
func (r *Reporter) WriteTextSummary(ctx context.Context, readings []domain.Reading, summaries []domain.BuildingSummary, trend dataprocessing.TrendStats) error {
	var b strings.Builder
	b.WriteString("Campus Energy Usage Summary\n")
	b.WriteString("===========================\n")

	if len(readings) == 0 {
		b.WriteString("No readings available. The input directory contained no valid data.\n")
	} else {
		total := lo.SumBy(summaries, func(s domain.BuildingSummary) float64 { return s.Sum })
		first := readings[0].Timestamp
		last := readings[len(readings)-1].Timestamp

		highest := lo.MaxBy(summaries, func(a, b domain.BuildingSummary) bool { return a.Sum > b.Sum })
		lowest := lo.MinBy(summaries, func(a, b domain.BuildingSummary) bool { return a.Sum < b.Sum })

		fmt.Fprintf(&b, "Total Consumption: %.2f KWH\n", total)
		fmt.Fprintf(&b, "Date Range: %s to %s\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
		fmt.Fprintf(&b, "Readings: %d across %d buildings\n", len(readings), len(summaries))
		fmt.Fprintf(&b, "Highest-Consuming Building: %s (%.2f KWH)\n", highest.Building, highest.Sum)
		fmt.Fprintf(&b, "Lowest-Consuming Building: %s (%.2f KWH)\n", lowest.Building, lowest.Sum)

		if peak, ok := dataprocessing.PeakReading(readings); ok {
			fmt.Fprintf(&b, "Peak Reading: %.2f KWH at %s (%s)\n",
				peak.KWH, formatTimestamp(peak), peak.Building)
		}
		fmt.Fprintf(&b, "Weekly Trend (Mean: %.2f, Max: %.2f)\n", trend.Mean, trend.Max)
		b.WriteString("Daily Trends: see dashboard.png for visualizations.\n")
	}

	path := filepath.Join(r.outputDir, TextSummaryFile)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return apperrors.NewStorageError("failed to write text summary", err).
			WithContext("file", TextSummaryFile)
	}

	r.logger.InfoContext(ctx, "wrote text summary", slog.String("file", TextSummaryFile))
	return nil
}

// formatTimestamp renders a reading timestamp, collapsing midnight to the
// bare date so date-only inputs round-trip unchanged.
func formatTimestamp(r domain.Reading) string {
	t := r.Timestamp
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
