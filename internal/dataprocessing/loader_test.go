package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "energycli/internal/errors"
	"energycli/internal/files"
	"energycli/pkg/contracts/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVSource_Load(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		want    []domain.RawReading
		wantErr bool
	}{
		{
			name:    "full header",
			content: "Date,Building,KWH\n2023-01-01,Library,234\n2023-01-02,Library,250\n",
			want: []domain.RawReading{
				{Timestamp: "2023-01-01", Building: "Library", KWH: "234"},
				{Timestamp: "2023-01-02", Building: "Library", KWH: "250"},
			},
		},
		{
			name:    "building column absent",
			content: "Date,KWH\n2023-01-01,234\n",
			want: []domain.RawReading{
				{Timestamp: "2023-01-01", Building: "", KWH: "234"},
			},
		},
		{
			name:    "reordered case-insensitive header",
			content: "kwh,date,building\n234,2023-01-01,Library\n",
			want: []domain.RawReading{
				{Timestamp: "2023-01-01", Building: "Library", KWH: "234"},
			},
		},
		{
			name:    "short row skipped",
			content: "Date,Building,KWH\n2023-01-01\n2023-01-02,Library,250\n",
			want: []domain.RawReading{
				{Timestamp: "2023-01-02", Building: "Library", KWH: "250"},
			},
		},
		{
			name:    "missing required columns",
			content: "Time,Value\n2023-01-01,234\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "input.csv", tt.content)
			src := NewCSVSource(path)

			got, err := src.Load(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.Timestamp, got[i].Timestamp)
				assert.Equal(t, want.Building, got[i].Building)
				assert.Equal(t, want.KWH, got[i].KWH)
				assert.Equal(t, path, got[i].SourceFile)
			}
		})
	}
}

func TestCSVSource_Load_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestExcelSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meters.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Building", "KWH"},
		{"2023-01-01", "Library", "234"},
		{"2023-01-02", "Dormitory", "410"},
	}
	for i, row := range rows {
		for j, cell := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, cell))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	src := NewExcelSource(path)
	got, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Library", got[0].Building)
	assert.Equal(t, "234", got[0].KWH)
	assert.Equal(t, "Dormitory", got[1].Building)
}

func TestExcelSource_Load_NoMatchingSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meters.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Time"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Value"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewExcelSource(path).Load(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

func TestExcelSource_Load_EquivalentToCSV(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	csvPath := writeFile(t, dir, "a.csv", "Date,Building,KWH\n2023-01-01,Library,234\n")

	xlsxPath := filepath.Join(dir, "a.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Date"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Building"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "KWH"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "2023-01-01"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Library"))
	require.NoError(t, f.SetCellValue(sheet, "C2", "234"))
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	fromCSV, err := NewCSVSource(csvPath).Load(ctx)
	require.NoError(t, err)
	fromXLSX, err := NewExcelSource(xlsxPath).Load(ctx)
	require.NoError(t, err)

	require.Len(t, fromCSV, 1)
	require.Len(t, fromXLSX, 1)
	assert.Equal(t, fromCSV[0].Timestamp, fromXLSX[0].Timestamp)
	assert.Equal(t, fromCSV[0].Building, fromXLSX[0].Building)
	assert.Equal(t, fromCSV[0].KWH, fromXLSX[0].KWH)
}

func TestLoader_LoadAll_SkipsUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "Date,Building,KWH\n2023-01-01,Library,234\n")

	loader := NewLoader(nil)
	raws := loader.LoadAll(context.Background(), []Source{
		NewCSVSource(filepath.Join(dir, "missing.csv")),
		NewCSVSource(good),
	})

	require.Len(t, raws, 1)
	assert.Equal(t, "Library", raws[0].Building)
}

func TestSourcesForFiles(t *testing.T) {
	sources := SourcesForFiles([]files.FileInfo{
		{Path: "/data/a.csv", Name: "a.csv"},
		{Path: "/data/b.xlsx", Name: "b.xlsx"},
	})

	require.Len(t, sources, 2)
	assert.IsType(t, &CSVSource{}, sources[0])
	assert.IsType(t, &ExcelSource{}, sources[1])
}
