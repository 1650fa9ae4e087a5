package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcastell/servicegraph/pkg/config"
	"github.com/dcastell/servicegraph/pkg/logging"
	"github.com/dcastell/servicegraph/pkg/metrics"
	"github.com/dcastell/servicegraph/pkg/pipeline"
	"github.com/dcastell/servicegraph/pkg/records"
	"github.com/dcastell/servicegraph/pkg/report"
)

const defaultQuery = "SELECT person, service, year, modality, complexity FROM service_records"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration")
	input := flag.String("input", "", "Input CSV file, data directory, or postgres:// connection string (overrides paths.data_raw)")
	outDir := flag.String("out", "", "Output directory override for reports")
	algorithm := flag.String("algorithm", "", "Projection algorithm: index, pairwise, or parallel (overrides config)")
	query := flag.String("query", defaultQuery, "SQL query used with postgres:// inputs")
	metricsListen := flag.String("metrics-listen", "", "Optional address for the Prometheus /metrics endpoint, e.g. :9090")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *algorithm != "" {
		cfg.Projection.Algorithm = *algorithm
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}
	if *outDir != "" {
		cfg.Paths.Reports = *outDir
	}

	logger := logging.NewDefaultLogger()
	prom := metrics.NewRegistry()

	if *metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(prom.Gatherer(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics endpoint failed", logging.Err(err))
			}
		}()
		logger.Info("metrics endpoint listening", logging.String("addr", *metricsListen))
	}

	set, err := loadRecords(cfg, *input, *query)
	if err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}
	logger.Info("records loaded", logging.Int("rows", set.Len()))

	p := pipeline.New(cfg, logger, prom)
	result, err := p.Run(set)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
	if err := p.Export(result); err != nil {
		log.Fatalf("Failed to write outputs: %v", err)
	}

	fmt.Println(report.RenderSummary(result.BasicMetrics, result.WeightedMetrics))
	fmt.Printf("Run %s complete. Reports written to %s\n", result.RunID, cfg.Paths.Reports)
}

// loadRecords resolves the input source. A postgres:// string reads from the
// database, a .csv path reads that file, a directory is scanned for the
// lexicographically first CSV, and an empty input falls back to the
// configured raw data directory.
func loadRecords(cfg *config.Config, input, query string) (*records.RecordSet, error) {
	if strings.HasPrefix(input, "postgres://") || strings.HasPrefix(input, "postgresql://") {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return records.ReadPostgres(ctx, input, query)
	}

	mapping := records.ColumnMapping{
		Person:     cfg.Columns.Person,
		Service:    cfg.Columns.Service,
		Year:       cfg.Columns.Year,
		Modality:   cfg.Columns.Modality,
		Complexity: cfg.Columns.Complexity,
	}

	path := input
	if path == "" {
		path = cfg.Paths.DataRaw
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		path, err = records.FindDataFile(path, "")
		if err != nil {
			return nil, err
		}
	}
	return records.ReadCSV(path, mapping)
}
