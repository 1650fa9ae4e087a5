// Package report exports pipeline results for the downstream reporting
// stage: CSV edge tables, the single-row metrics summary, and a styled
// terminal summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dcastell/servicegraph/pkg/analysis"
	"github.com/dcastell/servicegraph/pkg/network"
)

// WriteBipartiteEdges writes the bipartite edge table, one row per distinct
// (person, service, year) triple in the builder's sorted order.
func WriteBipartiteEdges(w io.Writer, triples []network.Triple) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"person", "service", "year"}); err != nil {
		return err
	}
	for _, t := range triples {
		if err := cw.Write([]string{t.Person, t.Service, strconv.Itoa(t.Year)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProjectionEdges writes the minimal projection export form:
// (person1, person2, weight), one row per unordered pair.
func WriteProjectionEdges(w io.Writer, edges []network.ProjectionEdge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"person1", "person2", "weight"}); err != nil {
		return err
	}
	for _, e := range edges {
		if err := cw.Write([]string{e.Person1, e.Person2, strconv.Itoa(e.Weight)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetricsSummary writes the combined metric sets as a single-row table
// with the field order fixed by the analysis package.
func WriteMetricsSummary(w io.Writer, basic, weighted analysis.MetricsRecord) error {
	header := make([]string, 0, len(analysis.BasicFields)+len(analysis.WeightedFields))
	row := make([]string, 0, cap(header))
	for _, f := range analysis.BasicFields {
		header = append(header, f)
		row = append(row, formatMetric(basic[f]))
	}
	for _, f := range analysis.WeightedFields {
		header = append(header, f)
		row = append(row, formatMetric(weighted[f]))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteDistribution writes a one-column table of per-node values. The
// downstream notebook plots these in place of the histograms the pipeline
// used to render itself.
func WriteDistribution(w io.Writer, column string, values []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{column}); err != nil {
		return err
	}
	for _, v := range values {
		if err := cw.Write([]string{formatMetric(v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteFile creates the parent directory if needed and writes via fn.
func WriteFile(dir, name string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
