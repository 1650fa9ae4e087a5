// Package records models the tabular service-usage record set consumed by
// the pipeline. Records are strongly typed with a fixed schema; type coercion
// happens once at the reading boundary, never downstream.
package records

import "strconv"

// Canonical logical column names. Sources map their own headers onto these.
const (
	ColPerson     = "person"
	ColService    = "service"
	ColYear       = "year"
	ColModality   = "modality"
	ColComplexity = "complexity"
)

// Record is one service-usage observation.
type Record struct {
	Person     string
	Service    string
	Year       int
	Modality   string
	Complexity string
}

// RecordSet is a record slice plus the set of logical columns the source
// actually carried. Column presence is tracked so schema validation can
// distinguish "column absent" from "column empty".
type RecordSet struct {
	Records []Record
	columns map[string]bool
}

// NewRecordSet creates a record set declaring the given logical columns present.
func NewRecordSet(records []Record, columns ...string) *RecordSet {
	set := &RecordSet{
		Records: records,
		columns: make(map[string]bool, len(columns)),
	}
	for _, c := range columns {
		set.columns[c] = true
	}
	return set
}

// HasColumn reports whether the source carried the given logical column.
func (s *RecordSet) HasColumn(name string) bool {
	return s.columns[name]
}

// Columns returns the logical columns present, in canonical order.
func (s *RecordSet) Columns() []string {
	out := make([]string, 0, len(s.columns))
	for _, c := range []string{ColPerson, ColService, ColYear, ColModality, ColComplexity} {
		if s.columns[c] {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	return len(s.Records)
}

// Clone returns a deep copy. Cleaning operates on copies so the raw set
// stays untouched for before/after accounting.
func (s *RecordSet) Clone() *RecordSet {
	records := make([]Record, len(s.Records))
	copy(records, s.Records)
	return NewRecordSet(records, s.Columns()...)
}

// Field returns the value of a logical column as a string, with ok=false
// for columns the schema does not define.
func (r Record) Field(name string) (string, bool) {
	switch name {
	case ColPerson:
		return r.Person, true
	case ColService:
		return r.Service, true
	case ColYear:
		// Year 0 means the value was missing; report it like an empty
		// cell so domain checks skip it the same way.
		if r.Year == 0 {
			return "", true
		}
		return strconv.Itoa(r.Year), true
	case ColModality:
		return r.Modality, true
	case ColComplexity:
		return r.Complexity, true
	default:
		return "", false
	}
}
