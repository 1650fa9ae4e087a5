package cleaning

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Stats captures the shape of a record set at one point in the run.
type Stats struct {
	Rows       int
	Duplicates int
	Missing    int
}

// Operation is one logged cleaning step with its counters.
type Operation struct {
	Name    string
	Details map[string]int
}

// Log records every cleaning operation with before/after statistics.
type Log struct {
	Before     Stats
	After      Stats
	Operations []Operation
}

// Record appends an operation to the log.
func (l *Log) Record(name string, details map[string]int) {
	l.Operations = append(l.Operations, Operation{Name: name, Details: details})
}

// RowsRemoved returns the net row count change across the whole run.
func (l *Log) RowsRemoved() int {
	return l.Before.Rows - l.After.Rows
}

// WriteCSV writes the operation log as CSV rows (operation, detail, count).
func (l *Log) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"operation", "detail", "count"}); err != nil {
		return err
	}
	for _, op := range l.Operations {
		keys := make([]string, 0, len(op.Details))
		for k := range op.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := cw.Write([]string{op.Name, k, fmt.Sprintf("%d", op.Details[k])}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders the log as a human-readable report.
func (l *Log) Markdown() string {
	var b strings.Builder
	b.WriteString("# Data Cleaning Log\n\n")

	b.WriteString("## Before\n\n")
	writeStats(&b, l.Before)

	b.WriteString("\n## Operations\n\n")
	for i, op := range l.Operations {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, op.Name)
		keys := make([]string, 0, len(op.Details))
		for k := range op.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %d\n", k, op.Details[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("## After\n\n")
	writeStats(&b, l.After)

	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- **rows removed**: %d\n", l.RowsRemoved())
	return b.String()
}

func writeStats(b *strings.Builder, s Stats) {
	fmt.Fprintf(b, "- **rows**: %d\n", s.Rows)
	fmt.Fprintf(b, "- **duplicate rows**: %d\n", s.Duplicates)
	fmt.Fprintf(b, "- **rows with missing values**: %d\n", s.Missing)
}
