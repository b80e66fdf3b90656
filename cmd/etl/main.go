// Command etl downloads all Swedish shelter records from the MSB feature
// service, converts them to the map app's GeoJSON schema, and writes them to
// a single pretty-printed UTF-8 file.
//
// Every parameter has a working default; see internal/config for the
// environment variables that override them.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tilfluktsrom/sweden-shelter-etl/internal/adapter/arcgis"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/adapter/geojson"
	kafkaadapter "github.com/tilfluktsrom/sweden-shelter-etl/internal/adapter/kafka"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/config"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/observability"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor := arcgis.NewClient(cfg.ArcGISBaseURL, cfg.RequestTimeout, logger)
	writer := geojson.NewWriter(cfg.OutputPath, logger)

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		kw := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = kw
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(extractor, writer, publisher, logger, metrics, cfg.PageSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrNoShelters):
		logger.Error("failed to download shelter data", "error", err)
		os.Exit(1)
	case err != nil:
		logger.Error("pipeline error", "error", err)
		os.Exit(1)
	}

	printSummary(cfg.OutputPath, result)
}

// printSummary writes the human-readable run report and the manual
// publishing steps that follow a successful refresh.
func printSummary(outputPath string, result pipeline.Result) {
	fmt.Printf("Downloaded %d shelters in %d pages", result.RecordsFetched, result.PagesFetched)
	if result.Partial {
		fmt.Print(" (incomplete: fetching stopped early)")
	}
	fmt.Println()

	fmt.Printf("Converted %d features (%d skipped without geometry)\n", result.FeaturesEmitted, result.SkippedNoGeometry)
	fmt.Printf("Addresses with Swedish characters: %d\n", result.SwedishAddresses)

	if info, err := os.Stat(outputPath); err == nil {
		fmt.Printf("File saved as %s (%.2f MB)\n", outputPath, float64(info.Size())/1024/1024)
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Copy %s to the map app repository\n", outputPath)
	fmt.Println("  2. Commit and push the changes")
	fmt.Println("  3. The app downloads the updated data from GitHub Pages")
}
