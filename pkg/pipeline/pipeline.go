// Package pipeline wires the stages of a run together: cleaning,
// validation, graph construction, projection, metrics, and export.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastell/servicegraph/pkg/analysis"
	"github.com/dcastell/servicegraph/pkg/cleaning"
	"github.com/dcastell/servicegraph/pkg/config"
	"github.com/dcastell/servicegraph/pkg/logging"
	"github.com/dcastell/servicegraph/pkg/metrics"
	"github.com/dcastell/servicegraph/pkg/network"
	"github.com/dcastell/servicegraph/pkg/records"
	"github.com/dcastell/servicegraph/pkg/validation"
)

// Pipeline runs the full preparation flow. It holds no state across runs;
// every Run rebuilds all graphs from the record set it is handed.
type Pipeline struct {
	cfg    *config.Config
	logger logging.Logger
	prom   *metrics.Registry
}

// Result is everything one run produced. The pipeline guarantees no further
// mutation after Run returns.
type Result struct {
	RunID       string
	CleaningLog *cleaning.Log
	Validation  *validation.Report
	Triples     []network.Triple
	Bipartite   *network.BipartiteGraph
	Projection  *network.Projection

	BasicMetrics    analysis.MetricsRecord
	WeightedMetrics analysis.MetricsRecord
}

// New creates a pipeline with explicit collaborators. Passing the logger and
// metrics registry in keeps runs isolated for parallel tests.
func New(cfg *config.Config, logger logging.Logger, prom *metrics.Registry) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger, prom: prom}
}

// Run executes the pipeline over a raw record set. A schema or validation
// failure aborts before any graph is built; no partial output escapes.
func (p *Pipeline) Run(raw *records.RecordSet) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With(logging.String("run_id", runID))
	logger.Info("pipeline started", logging.Int("rows", raw.Len()))
	p.prom.RowsReadTotal.Add(float64(raw.Len()))

	result := &Result{RunID: runID}

	// Cleaning.
	start := time.Now()
	cleaned, cleanLog := cleaning.Clean(raw, p.cleaningOptions(), logger)
	p.prom.ObserveStage("cleaning", time.Since(start))
	p.recordDrops(cleanLog)
	result.CleaningLog = cleanLog

	// Validation. The cleaned set already passed through domain filtering
	// and dedupe, so this is the contract check before graph construction.
	start = time.Now()
	report := validation.Validate(cleaned,
		p.logicalExpectedColumns(),
		p.logicalDomains(),
		p.logicalDedupeKeys())
	p.prom.ObserveStage("validation", time.Since(start))
	report.Log(logger)
	result.Validation = report
	if err := report.Err(); err != nil {
		p.prom.RecordRun("error")
		return nil, err
	}

	// Edge list.
	start = time.Now()
	triples, err := network.BuildEdgeList(cleaned)
	if err != nil {
		p.prom.RecordRun("error")
		return nil, err
	}
	p.prom.ObserveStage("edge_list", time.Since(start))
	result.Triples = triples
	logger.Info("edge list built",
		logging.Int("triples", len(triples)),
		logging.Duration("elapsed", time.Since(start)))

	// Bipartite graph.
	start = time.Now()
	bipartite, err := network.NewBipartiteGraph(triples)
	if err != nil {
		p.prom.RecordRun("error")
		return nil, err
	}
	p.prom.ObserveStage("bipartite_build", time.Since(start))
	p.prom.SetGraphSize("bipartite",
		bipartite.PersonCount()+bipartite.ServiceCount(), bipartite.EdgeCount())
	result.Bipartite = bipartite
	logger.Info("bipartite graph built",
		logging.Int("persons", bipartite.PersonCount()),
		logging.Int("services", bipartite.ServiceCount()),
		logging.Int("edges", bipartite.EdgeCount()))

	// Projection.
	start = time.Now()
	projection := network.Project(bipartite, p.projectionOptions())
	p.prom.ObserveStage("projection", time.Since(start))
	p.prom.SetGraphSize("projection",
		projection.Graph.NodeCount(), projection.Graph.EdgeCount())
	result.Projection = projection
	logger.Info("projection built",
		logging.Int("nodes", projection.Graph.NodeCount()),
		logging.Int("edges", projection.Graph.EdgeCount()),
		logging.Duration("elapsed", time.Since(start)))

	// Metrics over the projection graph.
	start = time.Now()
	result.BasicMetrics = analysis.ComputeBasic(projection.Graph, logger)
	result.WeightedMetrics = analysis.ComputeWeighted(projection.Graph)
	p.prom.ObserveStage("metrics", time.Since(start))
	logger.Info("metrics computed",
		logging.Float64("density", result.BasicMetrics["density"]),
		logging.Float64("total_weight", result.WeightedMetrics["total_weight"]))

	p.prom.RecordRun("ok")
	logger.Info("pipeline finished")
	return result, nil
}

func (p *Pipeline) cleaningOptions() cleaning.Options {
	return cleaning.Options{
		TitleCase:    p.cfg.Cleaning.TitleCase,
		StripAccents: p.cfg.Cleaning.StripAccents,
		DropMissing:  p.cfg.Cleaning.DropMissing,
		DedupeKeys:   p.logicalDedupeKeys(),
		Domains:      p.logicalDomains(),
	}
}

func (p *Pipeline) projectionOptions() network.Options {
	opts := network.Options{Workers: p.cfg.Projection.Workers}
	switch p.cfg.Projection.Algorithm {
	case config.AlgorithmPairwise:
		opts.Algorithm = network.AlgorithmPairwise
	case config.AlgorithmParallel:
		opts.Algorithm = network.AlgorithmParallel
	default:
		opts.Algorithm = network.AlgorithmIndex
	}
	return opts
}

// logicalFor maps a source column header onto the logical schema name, or
// "" when the header is not mapped.
func (p *Pipeline) logicalFor(source string) string {
	switch source {
	case p.cfg.Columns.Person:
		return records.ColPerson
	case p.cfg.Columns.Service:
		return records.ColService
	case p.cfg.Columns.Year:
		return records.ColYear
	case p.cfg.Columns.Modality:
		return records.ColModality
	case p.cfg.Columns.Complexity:
		return records.ColComplexity
	default:
		return ""
	}
}

func (p *Pipeline) logicalExpectedColumns() []string {
	var out []string
	for _, source := range p.cfg.Columns.Expected {
		if logical := p.logicalFor(source); logical != "" {
			out = append(out, logical)
		}
	}
	return out
}

func (p *Pipeline) logicalDomains() map[string][]string {
	out := make(map[string][]string, len(p.cfg.Domains))
	for source, values := range p.cfg.Domains {
		if logical := p.logicalFor(source); logical != "" {
			out[logical] = values
		}
	}
	return out
}

func (p *Pipeline) logicalDedupeKeys() []string {
	var out []string
	for _, source := range p.cfg.Cleaning.DedupeKeys {
		if logical := p.logicalFor(source); logical != "" {
			out = append(out, logical)
		}
	}
	return out
}

func (p *Pipeline) recordDrops(log *cleaning.Log) {
	for _, op := range log.Operations {
		reason := ""
		switch op.Name {
		case "domain filtering":
			reason = "domain"
		case "duplicate removal":
			reason = "duplicates"
		case "missing value removal":
			reason = "missing"
		}
		if reason != "" {
			p.prom.RecordDrop(reason, op.Details["rows_removed"])
		}
	}
}
