package cleaning

import (
	"fmt"
	"strings"

	"github.com/dcastell/servicegraph/pkg/logging"
	"github.com/dcastell/servicegraph/pkg/records"
)

// Options controls the cleaning pipeline.
type Options struct {
	TitleCase    bool
	StripAccents bool
	DropMissing  bool
	// DedupeKeys restricts duplicate detection to these logical columns.
	// Empty means the full row is the key.
	DedupeKeys []string
	// Domains maps a logical column to its allowed values. Rows holding a
	// non-empty value outside the domain are dropped. Empty values pass and
	// are left for the missing-value step.
	Domains map[string][]string
}

// Clean runs the full cleaning pipeline over a copy of the input set:
// text normalization, domain filtering, duplicate removal, missing-value
// removal. The input set is never mutated.
func Clean(set *records.RecordSet, opts Options, logger logging.Logger) (*records.RecordSet, *Log) {
	log := &Log{Before: computeStats(set, opts.DedupeKeys)}
	out := set.Clone()

	logger.Info("cleaning started", logging.Int("rows", out.Len()))

	changed := normalizeText(out, opts)
	log.Record("text normalization", map[string]int{"values_changed": changed})
	logger.Info("text normalized", logging.Int("values_changed", changed))

	removedByDomain := filterDomains(out, opts.Domains, logger)
	log.Record("domain filtering", map[string]int{"rows_removed": removedByDomain})

	removedDupes := dedupe(out, opts.DedupeKeys)
	log.Record("duplicate removal", map[string]int{"rows_removed": removedDupes})
	logger.Info("duplicates removed", logging.Int("rows_removed", removedDupes))

	removedMissing := 0
	if opts.DropMissing {
		removedMissing = dropMissing(out)
		logger.Info("missing values dropped", logging.Int("rows_removed", removedMissing))
	}
	log.Record("missing value removal", map[string]int{"rows_removed": removedMissing})

	log.After = computeStats(out, opts.DedupeKeys)
	logger.Info("cleaning finished",
		logging.Int("rows_before", log.Before.Rows),
		logging.Int("rows_after", log.After.Rows))

	return out, log
}

func normalizeText(set *records.RecordSet, opts Options) int {
	changed := 0
	for i := range set.Records {
		r := &set.Records[i]
		for _, f := range []*string{&r.Person, &r.Service, &r.Modality, &r.Complexity} {
			norm := NormalizeText(*f, opts.TitleCase, opts.StripAccents)
			if norm != *f {
				*f = norm
				changed++
			}
		}
	}
	return changed
}

func filterDomains(set *records.RecordSet, domains map[string][]string, logger logging.Logger) int {
	if len(domains) == 0 {
		return 0
	}

	allowed := make(map[string]map[string]bool, len(domains))
	for col, values := range domains {
		m := make(map[string]bool, len(values))
		for _, v := range values {
			m[v] = true
		}
		allowed[col] = m
	}

	removed := 0
	kept := set.Records[:0]
	for _, r := range set.Records {
		ok := true
		for col, m := range allowed {
			val, known := r.Field(col)
			if !known || val == "" {
				continue
			}
			if !m[val] {
				ok = false
				logger.Warn("row outside domain",
					logging.String("column", col), logging.String("value", val))
				break
			}
		}
		if ok {
			kept = append(kept, r)
		} else {
			removed++
		}
	}
	set.Records = kept
	return removed
}

func dedupe(set *records.RecordSet, keys []string) int {
	seen := make(map[string]bool, len(set.Records))
	removed := 0
	kept := set.Records[:0]
	for _, r := range set.Records {
		k := rowKey(r, keys)
		if seen[k] {
			removed++
			continue
		}
		seen[k] = true
		kept = append(kept, r)
	}
	set.Records = kept
	return removed
}

func dropMissing(set *records.RecordSet) int {
	removed := 0
	kept := set.Records[:0]
	for _, r := range set.Records {
		if r.Person == "" || r.Service == "" || r.Year == 0 {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	set.Records = kept
	return removed
}

func computeStats(set *records.RecordSet, dedupeKeys []string) Stats {
	seen := make(map[string]bool, len(set.Records))
	stats := Stats{Rows: set.Len()}
	for _, r := range set.Records {
		k := rowKey(r, dedupeKeys)
		if seen[k] {
			stats.Duplicates++
		}
		seen[k] = true
		if r.Person == "" || r.Service == "" || r.Year == 0 {
			stats.Missing++
		}
	}
	return stats
}

func rowKey(r records.Record, keys []string) string {
	if len(keys) == 0 {
		return strings.Join([]string{
			r.Person, r.Service, fmt.Sprintf("%d", r.Year), r.Modality, r.Complexity,
		}, "\x1f")
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == records.ColYear {
			parts = append(parts, fmt.Sprintf("%d", r.Year))
			continue
		}
		v, _ := r.Field(k)
		parts = append(parts, v)
	}
	return strings.Join(parts, "\x1f")
}
