package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"energycli/internal/config"
	"energycli/internal/dataprocessing"
	"energycli/internal/exporter"
	"energycli/internal/files"
	"energycli/internal/infrastructure"
	"energycli/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to config.yaml if present)")
	dataDir := flag.String("data", "", "input directory for CSV/XLSX files (defaults to config paths.data_dir)")
	outDir := flag.String("out", "", "output directory for reports (defaults to config paths.output_dir)")
	granularity := flag.String("granularity", "", "resampling granularity: day or week (defaults to config aggregation.granularity)")
	seed := flag.Int64("seed", 0, "sample data seed (defaults to config sample.seed)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override config.
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}
	if *granularity != "" {
		cfg.Aggregation.Granularity = *granularity
	}
	if *seed != 0 {
		cfg.Sample.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = infrastructure.GetLogger()
	}
	defer infrastructure.CloseLogFile()

	logger = logger.With(slog.String("run_id", uuid.NewString()))

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Dashboard pipeline complete. Files exported: cleaned_energy_data.csv, building_summary.csv, summary.txt, dashboard.png")
}

// run executes the full pipeline: discover, load, clean, aggregate and
// export. Input problems are recovered inside the stages; any error
// returned here is an unrecoverable setup or output failure.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.InfoContext(ctx, "starting energy dashboard pipeline",
		slog.String("data_dir", cfg.Paths.DataDir),
		slog.String("output_dir", cfg.Paths.OutputDir),
		slog.String("granularity", cfg.Aggregation.Granularity))

	sources := discoverSources(ctx, cfg, logger)

	loader := dataprocessing.NewLoader(logger)
	raws := loader.LoadAll(ctx, sources)

	cleaner := dataprocessing.NewCleaner(logger)
	readings, _ := cleaner.Clean(ctx, raws)
	if len(readings) == 0 {
		logger.WarnContext(ctx, "no valid readings after cleaning, producing empty artifacts")
	}

	granularity := domain.Granularity(cfg.Aggregation.Granularity)
	aggregator := dataprocessing.NewAggregator(logger)
	aggregates := aggregator.Aggregate(ctx, readings, granularity)
	logger.DebugContext(ctx, "resampled dataset", slog.Int("period_rows", len(aggregates)))
	summaries := aggregator.Summarize(ctx, readings)
	dailyTotals := aggregator.CampusTotals(readings, domain.GranularityDay)
	weeklyTrend := dataprocessing.Trend(aggregator.CampusTotals(readings, domain.GranularityWeek))

	reporter := exporter.NewReporter(cfg.Paths.OutputDir, logger)
	if err := reporter.WriteCleanedData(ctx, readings); err != nil {
		return err
	}
	if err := reporter.WriteBuildingSummary(ctx, summaries); err != nil {
		return err
	}
	if err := reporter.WriteTextSummary(ctx, readings, summaries, weeklyTrend); err != nil {
		return err
	}

	renderer := exporter.NewDashboardRenderer(cfg.Paths.OutputDir, logger)
	if err := renderer.Render(ctx, readings, summaries, dailyTotals); err != nil {
		return err
	}

	logger.InfoContext(ctx, "pipeline complete",
		slog.Int("reading_count", len(readings)),
		slog.Int("building_count", len(summaries)))
	return nil
}

// discoverSources finds the input files to read. When the data directory
// is missing or empty, it falls back to the sample-data source so the run
// still demonstrates the full pipeline.
func discoverSources(ctx context.Context, cfg *config.Config, logger *slog.Logger) []dataprocessing.Source {
	discovery := files.NewDiscovery("")
	infos, err := discovery.FindInputFiles(cfg.Paths.DataDir)
	if err != nil {
		logger.WarnContext(ctx, "data directory not readable, generating sample data",
			slog.String("data_dir", cfg.Paths.DataDir),
			slog.String("error", err.Error()))
		return []dataprocessing.Source{
			dataprocessing.NewSampleSource(cfg.Sample, cfg.Paths.DataDir, logger),
		}
	}
	if len(infos) == 0 {
		logger.WarnContext(ctx, "no input files found, generating sample data",
			slog.String("data_dir", cfg.Paths.DataDir))
		return []dataprocessing.Source{
			dataprocessing.NewSampleSource(cfg.Sample, cfg.Paths.DataDir, logger),
		}
	}

	logger.InfoContext(ctx, "discovered input files", slog.Int("count", len(infos)))
	return dataprocessing.SourcesForFiles(infos)
}
