// Package network builds the bipartite person-service graph from cleaned
// records and projects it onto a weighted person-person graph.
package network

import (
	"sort"

	"github.com/dcastell/servicegraph/pkg/records"
)

// Triple is one distinct (person, service, year) observation, the bipartite
// edge list row.
type Triple struct {
	Person  string
	Service string
	Year    int
}

// BuildEdgeList reduces a record set to its distinct (person, service, year)
// triples. The same person-service pair in different years yields distinct
// triples here; the bipartite builder collapses them into one edge carrying
// all years. Output is sorted by (person, service, year) so exports are
// reproducible. Returns a SchemaError when a required column is absent.
func BuildEdgeList(set *records.RecordSet) ([]Triple, error) {
	for _, col := range []string{records.ColPerson, records.ColService, records.ColYear} {
		if !set.HasColumn(col) {
			return nil, schemaErr("edge list", col, ErrMissingColumn)
		}
	}

	seen := make(map[Triple]bool, set.Len())
	out := make([]Triple, 0, set.Len())
	for _, r := range set.Records {
		t := Triple{Person: r.Person, Service: r.Service, Year: r.Year}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Person != out[j].Person {
			return out[i].Person < out[j].Person
		}
		if out[i].Service != out[j].Service {
			return out[i].Service < out[j].Service
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}
