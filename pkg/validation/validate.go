package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dcastell/servicegraph/pkg/records"
)

// Categories used in validation issues.
const (
	CategorySchema     = "SCHEMA"
	CategoryDomain     = "DOMAIN"
	CategoryDuplicates = "DUPLICATES"
)

// ValidateSchema checks that every expected logical column is present.
// Missing columns are errors; columns present but not expected are warnings.
func ValidateSchema(set *records.RecordSet, expected []string) *Report {
	report := &Report{}

	want := make(map[string]bool, len(expected))
	for _, col := range expected {
		want[col] = true
		if !set.HasColumn(col) {
			report.AddError(CategorySchema, "missing column %q", col)
		}
	}
	for _, col := range set.Columns() {
		if !want[col] {
			report.AddWarning(CategorySchema, "unexpected column %q", col)
		}
	}
	return report
}

// ValidateDomains checks that every non-empty categorical value falls inside
// its configured domain.
func ValidateDomains(set *records.RecordSet, domains map[string][]string) *Report {
	report := &Report{}

	cols := make([]string, 0, len(domains))
	for col := range domains {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		if !set.HasColumn(col) {
			report.AddWarning(CategoryDomain, "domain configured for absent column %q", col)
			continue
		}
		allowed := make(map[string]bool, len(domains[col]))
		for _, v := range domains[col] {
			allowed[v] = true
		}

		invalid := map[string]int{}
		for _, r := range set.Records {
			v, ok := r.Field(col)
			if !ok || v == "" {
				continue
			}
			if !allowed[v] {
				invalid[v]++
			}
		}
		if len(invalid) > 0 {
			total := 0
			values := make([]string, 0, len(invalid))
			for v, n := range invalid {
				total += n
				values = append(values, v)
			}
			sort.Strings(values)
			report.AddError(CategoryDomain, "column %q: %d rows outside domain (values: %s)",
				col, total, strings.Join(values, ", "))
		}
	}
	return report
}

// ValidateDuplicates checks that the key columns uniquely identify rows.
func ValidateDuplicates(set *records.RecordSet, keys []string) *Report {
	report := &Report{}
	if len(keys) == 0 {
		return report
	}

	for _, k := range keys {
		if k != records.ColYear && !set.HasColumn(k) {
			report.AddError(CategoryDuplicates, "key column %q absent", k)
			return report
		}
	}

	seen := make(map[string]int, set.Len())
	for _, r := range set.Records {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if k == records.ColYear {
				parts = append(parts, fmt.Sprintf("%d", r.Year))
				continue
			}
			v, _ := r.Field(k)
			parts = append(parts, v)
		}
		seen[strings.Join(parts, "\x1f")]++
	}

	duplicated := 0
	for _, n := range seen {
		if n > 1 {
			duplicated += n
		}
	}
	if duplicated > 0 {
		report.AddError(CategoryDuplicates, "%d rows share a key in (%s)",
			duplicated, strings.Join(keys, ", "))
	}
	return report
}

// Validate runs schema, domain, and duplicate-key validation and merges the
// results.
func Validate(set *records.RecordSet, expected []string, domains map[string][]string, dupKeys []string) *Report {
	report := ValidateSchema(set, expected)
	report.Merge(ValidateDomains(set, domains))
	report.Merge(ValidateDuplicates(set, dupKeys))
	return report
}
