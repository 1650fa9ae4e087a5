package pipeline

import (
	"io"
	"time"

	"github.com/dcastell/servicegraph/pkg/analysis"
	"github.com/dcastell/servicegraph/pkg/logging"
	"github.com/dcastell/servicegraph/pkg/report"
)

// Export writes every artifact of a completed run under the configured
// output directories. Edge lists land in the processed data directory,
// reports and logs in the reports directory.
func (p *Pipeline) Export(result *Result) error {
	start := time.Now()
	logger := p.logger.With(logging.String("run_id", result.RunID))
	processed := p.cfg.Paths.DataProcessed
	reports := p.cfg.Paths.Reports
	out := p.cfg.Outputs

	writes := []struct {
		dir, name string
		fn        func(io.Writer) error
	}{
		{processed, out.BipartiteEdges, func(w io.Writer) error {
			return report.WriteBipartiteEdges(w, result.Triples)
		}},
		{processed, out.ProjectionEdges, func(w io.Writer) error {
			return report.WriteProjectionEdges(w, result.Projection.Edges)
		}},
		{reports, out.MetricsSummary, func(w io.Writer) error {
			return report.WriteMetricsSummary(w, result.BasicMetrics, result.WeightedMetrics)
		}},
		{reports, out.CleaningLogCSV, result.CleaningLog.WriteCSV},
	}
	if out.DegreeDist != "" {
		writes = append(writes, struct {
			dir, name string
			fn        func(io.Writer) error
		}{reports, out.DegreeDist, func(w io.Writer) error {
			return report.WriteDistribution(w, "degree",
				analysis.DegreeDistribution(result.Projection.Graph))
		}})
	}
	if out.StrengthDist != "" {
		writes = append(writes, struct {
			dir, name string
			fn        func(io.Writer) error
		}{reports, out.StrengthDist, func(w io.Writer) error {
			return report.WriteDistribution(w, "strength",
				analysis.StrengthDistribution(result.Projection.Graph))
		}})
	}

	for _, wr := range writes {
		if err := report.WriteFile(wr.dir, wr.name, wr.fn); err != nil {
			return err
		}
		logger.Debug("artifact written",
			logging.String("dir", wr.dir), logging.String("file", wr.name))
	}

	if out.CleaningLogMD != "" {
		if err := report.WriteFile(reports, out.CleaningLogMD, func(w io.Writer) error {
			_, err := io.WriteString(w, result.CleaningLog.Markdown())
			return err
		}); err != nil {
			return err
		}
	}

	p.prom.ObserveStage("export", time.Since(start))
	logger.Info("export finished", logging.String("reports_dir", reports))
	return nil
}
