package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dcastell/servicegraph/pkg/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	labelStyle = lipgloss.NewStyle().
			Width(26).
			Foreground(lipgloss.Color("7"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

// summaryRows pairs display labels with metric field names.
var summaryRows = []struct {
	label string
	field string
}{
	{"Nodes (N)", "n_nodes"},
	{"Edges (E)", "n_edges"},
	{"Density", "density"},
	{"Average degree", "avg_degree"},
	{"Max degree", "max_degree"},
	{"Min degree", "min_degree"},
	{"Isolated nodes", "isolated_nodes"},
	{"Isolated (%)", "pct_isolated"},
	{"Components", "n_components"},
	{"LCC size", "lcc_size"},
	{"LCC (%)", "lcc_pct"},
	{"Global clustering", "clustering_global"},
}

var weightedRows = []struct {
	label string
	field string
}{
	{"Average strength", "avg_strength"},
	{"Max strength", "max_strength"},
	{"Min strength", "min_strength"},
	{"Strength std dev", "std_strength"},
	{"Total weight", "total_weight"},
	{"Average edge weight", "avg_edge_weight"},
}

// RenderSummary renders both metric sets as a styled terminal block.
func RenderSummary(basic, weighted analysis.MetricsRecord) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Structural metrics"))
	b.WriteString("\n")
	for _, row := range summaryRows {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(row.label), formatMetric(basic[row.field]))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Weighted metrics"))
	b.WriteString("\n")
	for _, row := range weightedRows {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(row.label), formatMetric(weighted[row.field]))
	}

	return titleStyle.Render("Network metrics summary") + "\n" +
		boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
