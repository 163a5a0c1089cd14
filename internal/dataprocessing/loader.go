package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "energycli/internal/errors"
	"energycli/internal/files"
	"energycli/pkg/contracts/domain"
)

// Source is a provider of raw readings. File readers and the sample-data
// generator all implement it, so tests can inject deterministic fixtures.
type Source interface {
	// Name identifies the source in logs and as the fallback building name.
	Name() string
	// Load reads all raw readings from the source.
	Load(ctx context.Context) ([]domain.RawReading, error)
}

// Loader reads raw readings from a set of sources. A source that fails to
// load is skipped with a warning; it never aborts the run.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader instance
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadAll collects the raw readings from every source in order.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) []domain.RawReading {
	var all []domain.RawReading
	for _, src := range sources {
		rows, err := src.Load(ctx)
		if err != nil {
			l.logger.WarnContext(ctx, "skipping unreadable source",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			continue
		}
		l.logger.InfoContext(ctx, "loaded source",
			slog.String("source", src.Name()),
			slog.Int("row_count", len(rows)))
		all = append(all, rows...)
	}
	return all
}

// SourcesForFiles builds a Source per discovered input file.
func SourcesForFiles(infos []files.FileInfo) []Source {
	sources := make([]Source, 0, len(infos))
	for _, info := range infos {
		if strings.HasSuffix(strings.ToLower(info.Name), ".csv") {
			sources = append(sources, NewCSVSource(info.Path))
		} else {
			sources = append(sources, NewExcelSource(info.Path))
		}
	}
	return sources
}

// columnMap maps the logical reading columns to their positions in a
// header row. Matching is case-insensitive on trimmed header names.
type columnMap struct {
	date     int
	building int
	kwh      int
}

func mapColumns(header []string) (columnMap, error) {
	cm := columnMap{date: -1, building: -1, kwh: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "timestamp":
			cm.date = i
		case "building":
			cm.building = i
		case "kwh", "energy", "usage":
			cm.kwh = i
		}
	}
	if cm.date == -1 || cm.kwh == -1 {
		return cm, fmt.Errorf("header missing required Date/KWH columns: %v", header)
	}
	return cm, nil
}

func (cm columnMap) rawReading(row []string, sourceFile string) (domain.RawReading, bool) {
	if cm.date >= len(row) || cm.kwh >= len(row) {
		return domain.RawReading{}, false
	}
	r := domain.RawReading{
		Timestamp:  strings.TrimSpace(row[cm.date]),
		KWH:        strings.TrimSpace(row[cm.kwh]),
		SourceFile: sourceFile,
	}
	if cm.building >= 0 && cm.building < len(row) {
		r.Building = strings.TrimSpace(row[cm.building])
	}
	return r, true
}

// CSVSource reads raw readings from a single CSV file with a
// Date,Building,KWH header (Building optional, column order free).
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name returns the file path of the source.
func (s *CSVSource) Name() string { return s.path }

// Load reads all rows from the CSV file. Rows with inconsistent field
// counts are skipped rather than failing the file.
func (s *CSVSource) Load(ctx context.Context) ([]domain.RawReading, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open CSV file", err).
			WithContext("path", s.path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, apperrors.NewParsingError("failed to read CSV header", err).
			WithContext("path", s.path)
	}

	cm, err := mapColumns(header)
	if err != nil {
		return nil, apperrors.NewParsingError("unrecognized CSV header", err).
			WithContext("path", s.path)
	}

	var readings []domain.RawReading
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line: skip it, keep the file.
			slog.WarnContext(ctx, "skipping malformed CSV row",
				slog.String("path", s.path),
				slog.String("error", err.Error()))
			continue
		}
		if r, ok := cm.rawReading(row, s.path); ok {
			readings = append(readings, r)
		}
	}

	return readings, nil
}

// ExcelSource reads raw readings from a .xlsx meter export. The first
// sheet whose header row contains Date and KWH columns is used.
type ExcelSource struct {
	path string
}

// NewExcelSource creates a source for the Excel file at path.
func NewExcelSource(path string) *ExcelSource {
	return &ExcelSource{path: path}
}

// Name returns the file path of the source.
func (s *ExcelSource) Name() string { return s.path }

// Load reads all data rows from the first matching sheet.
func (s *ExcelSource) Load(ctx context.Context) ([]domain.RawReading, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open Excel file", err).
			WithContext("path", s.path)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		cm, err := mapColumns(rows[0])
		if err != nil {
			continue
		}

		var readings []domain.RawReading
		for _, row := range rows[1:] {
			if r, ok := cm.rawReading(row, s.path); ok {
				readings = append(readings, r)
			}
		}
		slog.DebugContext(ctx, "read Excel sheet",
			slog.String("path", s.path),
			slog.String("sheet", sheet),
			slog.Int("row_count", len(readings)))
		return readings, nil
	}

	return nil, apperrors.NewNotFoundError("sheet with Date/KWH columns").
		WithContext("path", s.path)
}
