package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"energycli/internal/dataprocessing"
	apperrors "energycli/internal/errors"
	"energycli/pkg/contracts/domain"
)

// DashboardRenderer draws the 2x2 PNG dashboard: daily consumption trend,
// mean usage per building, consumption by day of week, and the KWH
// distribution.
type DashboardRenderer struct {
	outputDir string
	width     vg.Length
	height    vg.Length
	logger    *slog.Logger
}

// NewDashboardRenderer creates a renderer writing into outputDir.
func NewDashboardRenderer(outputDir string, logger *slog.Logger) *DashboardRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardRenderer{
		outputDir: outputDir,
		width:     14 * vg.Inch,
		height:    10 * vg.Inch,
		logger:    logger,
	}
}

// Render draws the dashboard image. An empty dataset still renders: the
// panels come out empty but titled, and the file is always written.
func (d *DashboardRenderer) Render(ctx context.Context, readings []domain.Reading, summaries []domain.BuildingSummary, dailyTotals []dataprocessing.CampusTotal) error {
	if len(readings) == 0 {
		d.logger.WarnContext(ctx, "rendering dashboard for empty dataset")
	}

	trendPanel, err := d.trendPanel(dailyTotals)
	if err != nil {
		return apperrors.NewStorageError("failed to build trend panel", err)
	}
	barPanel, err := d.buildingPanel(summaries)
	if err != nil {
		return apperrors.NewStorageError("failed to build building panel", err)
	}
	scatterPanel, err := d.weekdayPanel(readings)
	if err != nil {
		return apperrors.NewStorageError("failed to build weekday panel", err)
	}
	histPanel, err := d.distributionPanel(readings)
	if err != nil {
		return apperrors.NewStorageError("failed to build distribution panel", err)
	}

	path := filepath.Join(d.outputDir, DashboardFile)
	if err := d.writePNG(path, [][]*plot.Plot{
		{trendPanel, barPanel},
		{scatterPanel, histPanel},
	}); err != nil {
		return apperrors.NewStorageError("failed to write dashboard image", err).
			WithContext("file", DashboardFile)
	}

	d.logger.InfoContext(ctx, "wrote dashboard image", slog.String("file", DashboardFile))
	return nil
}

// trendPanel plots total daily consumption over time.
func (d *DashboardRenderer) trendPanel(totals []dataprocessing.CampusTotal) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Daily Consumption Trend"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total KWH"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	pts := make(plotter.XYs, len(totals))
	for i, t := range totals {
		pts[i].X = float64(t.PeriodStart.Unix())
		pts[i].Y = t.Sum
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	return p, nil
}

// buildingPanel plots mean consumption per building as a bar chart.
func (d *DashboardRenderer) buildingPanel(summaries []domain.BuildingSummary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Usage by Building"
	p.X.Label.Text = "Building"
	p.Y.Label.Text = "Mean KWH"

	// plotter.NewBarChart rejects empty input; an empty panel is fine.
	if len(summaries) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(summaries))
	names := make([]string, len(summaries))
	for i, s := range summaries {
		values[i] = s.Mean
		names[i] = s.Building
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(1)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// weekdayPanel scatters individual readings against their day of week.
func (d *DashboardRenderer) weekdayPanel(readings []domain.Reading) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Consumption vs. Day of Week"
	p.Y.Label.Text = "KWH"

	pts := make(plotter.XYs, len(readings))
	for i, r := range readings {
		// Monday-first ordering to match the weekly buckets.
		pts[i].X = float64((int(r.Timestamp.Weekday()) + 6) % 7)
		pts[i].Y = r.KWH
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.Color = plotutil.Color(2)
	scatter.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.NominalX("Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun")
	return p, nil
}

// distributionPanel plots the histogram of all KWH values.
func (d *DashboardRenderer) distributionPanel(readings []domain.Reading) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "KWH Distribution"
	p.X.Label.Text = "KWH"
	p.Y.Label.Text = "Frequency"

	// plotter.NewHist rejects empty input; an empty panel is fine.
	if len(readings) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(readings))
	for i, r := range readings {
		values[i] = r.KWH
	}

	hist, err := plotter.NewHist(values, 20)
	if err != nil {
		return nil, err
	}
	hist.FillColor = plotutil.Color(3)
	p.Add(hist)
	return p, nil
}

// writePNG lays the panels out on a tiled canvas and writes the image.
func (d *DashboardRenderer) writePNG(path string, plots [][]*plot.Plot) error {
	img := vgimg.New(d.width, d.height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(f)
	return err
}
