package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastell/servicegraph/pkg/config"
	"github.com/dcastell/servicegraph/pkg/logging"
	"github.com/dcastell/servicegraph/pkg/metrics"
	"github.com/dcastell/servicegraph/pkg/records"
)

const pipelineYAML = `
paths:
  data_raw: %RAW%
  data_processed: %PROCESSED%
  reports: %REPORTS%
columns:
  person: PERSON
  service: SERVICE_TYPE
  year: YEAR
  modality: MODALITY
domains:
  MODALITY: [Outpatient, Inpatient]
cleaning:
  title_case: true
  strip_accents: true
  drop_missing: true
projection:
  algorithm: index
outputs:
  bipartite_edges: bipartite_edges.csv
  projection_edges: projection_edges.csv
  metrics_summary: metrics_summary.csv
  degree_distribution: degree_distribution.csv
  strength_distribution: strength_distribution.csv
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	yaml := pipelineYAML
	yaml = strings.ReplaceAll(yaml, "%RAW%", filepath.Join(root, "raw"))
	yaml = strings.ReplaceAll(yaml, "%PROCESSED%", filepath.Join(root, "processed"))
	yaml = strings.ReplaceAll(yaml, "%REPORTS%", filepath.Join(root, "reports"))
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(testConfig(t), logging.NopLogger{}, metrics.NewRegistry())
}

func rawRecords() *records.RecordSet {
	recs := []records.Record{
		{Person: "ana garcia", Service: "cardiology", Year: 2021, Modality: "outpatient"},
		{Person: "Ana García", Service: "Radiology", Year: 2021, Modality: "Outpatient"},
		{Person: "bruno silva", Service: "cardiology", Year: 2022, Modality: "Inpatient"},
		{Person: "bruno silva", Service: "radiology", Year: 2022, Modality: "Inpatient"},
		{Person: "Carla Mota", Service: "Radiology", Year: 2021, Modality: "Outpatient"},
		// Exact duplicate, removed by dedupe.
		{Person: "Carla Mota", Service: "Radiology", Year: 2021, Modality: "Outpatient"},
		// Missing year, removed when drop_missing is on.
		{Person: "Dario Luz", Service: "Radiology", Year: 0, Modality: "Outpatient"},
		// Out-of-domain modality, removed by domain filtering.
		{Person: "Eva Reis", Service: "Radiology", Year: 2021, Modality: "Telehealth"},
	}
	return records.NewRecordSet(recs,
		records.ColPerson, records.ColService, records.ColYear, records.ColModality)
}

func TestRun_EndToEnd(t *testing.T) {
	p := testPipeline(t)
	result, err := p.Run(rawRecords())
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)

	// Cleaning unified casing and accents, then removed one duplicate,
	// one out-of-domain row, and one row with a missing year.
	assert.Equal(t, 5, len(result.Triples))
	assert.True(t, result.Validation.Passed())

	bg := result.Bipartite
	assert.Equal(t, 3, bg.PersonCount())
	assert.Equal(t, 2, bg.ServiceCount())
	assert.Equal(t, 5, bg.EdgeCount())

	// Ana and Bruno share both services, Carla only radiology.
	proj := result.Projection
	require.Equal(t, 3, proj.Graph.NodeCount())
	require.Equal(t, 3, proj.Graph.EdgeCount())
	assert.Equal(t, 2.0, proj.Graph.Weight("Ana Garcia", "Bruno Silva"))
	assert.Equal(t, 1.0, proj.Graph.Weight("Ana Garcia", "Carla Mota"))
	assert.Equal(t, 1.0, proj.Graph.Weight("Bruno Silva", "Carla Mota"))

	assert.Equal(t, 3.0, result.BasicMetrics["n_nodes"])
	assert.Equal(t, 3.0, result.BasicMetrics["n_edges"])
	assert.Equal(t, 1.0, result.BasicMetrics["density"])
	assert.Equal(t, 1.0, result.BasicMetrics["n_components"])
	assert.Equal(t, 4.0, result.WeightedMetrics["total_weight"])
}

func TestRun_ValidationFailureAborts(t *testing.T) {
	p := testPipeline(t)
	// Drop the year column entirely; schema validation must fail before
	// any graph is built.
	recs := []records.Record{
		{Person: "Ana García", Service: "Radiology"},
	}
	set := records.NewRecordSet(recs, records.ColPerson, records.ColService)
	result, err := p.Run(set)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestExport_WritesAllArtifacts(t *testing.T) {
	p := testPipeline(t)
	result, err := p.Run(rawRecords())
	require.NoError(t, err)
	require.NoError(t, p.Export(result))

	processed := p.cfg.Paths.DataProcessed
	reports := p.cfg.Paths.Reports
	for _, path := range []string{
		filepath.Join(processed, "bipartite_edges.csv"),
		filepath.Join(processed, "projection_edges.csv"),
		filepath.Join(reports, "metrics_summary.csv"),
		filepath.Join(reports, "cleaning_log.csv"),
		filepath.Join(reports, "cleaning_log.md"),
		filepath.Join(reports, "degree_distribution.csv"),
		filepath.Join(reports, "strength_distribution.csv"),
	} {
		info, err := os.Stat(path)
		require.NoError(t, err, "missing artifact %s", path)
		assert.Greater(t, info.Size(), int64(0), "empty artifact %s", path)
	}

	data, err := os.ReadFile(filepath.Join(processed, "projection_edges.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "person1,person2,weight", lines[0])
}

func TestRun_Deterministic(t *testing.T) {
	p := testPipeline(t)
	first, err := p.Run(rawRecords())
	require.NoError(t, err)
	second, err := p.Run(rawRecords())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Triples, second.Triples)
	assert.Equal(t, first.Projection.Edges, second.Projection.Edges)
	assert.Equal(t, first.BasicMetrics, second.BasicMetrics)
	assert.Equal(t, first.WeightedMetrics, second.WeightedMetrics)
}
