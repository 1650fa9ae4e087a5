package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ColumnMapping names the source CSV headers for each logical column.
// Modality and Complexity are optional; empty means the source has no such
// column.
type ColumnMapping struct {
	Person     string
	Service    string
	Year       string
	Modality   string
	Complexity string
}

// DefaultExtensions are the data file extensions FindDataFile looks for.
var DefaultExtensions = []string{".csv"}

// FindDataFile locates a data file in a directory. With several candidates
// it picks the lexicographically first so repeated runs read the same file.
func FindDataFile(dir, pattern string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read data directory %s: %w", dir, err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		ok := false
		for _, allowed := range DefaultExtensions {
			if ext == allowed {
				ok = true
				break
			}
		}
		if !ok {
			continue
		}
		if pattern != "" && !strings.Contains(name, pattern) {
			continue
		}
		matches = append(matches, filepath.Join(dir, name))
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no data file found in %s (pattern %q)", dir, pattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// ReadCSV reads a CSV file into a RecordSet using the given header mapping.
// Rows whose year cell does not parse keep Year=0; the cleaning stage decides
// whether such rows survive. A mapped column missing from the header is not
// an error here; the set simply does not declare that logical column, and
// schema validation reports it with full context.
func ReadCSV(path string, mapping ColumnMapping) (*RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	set, err := readCSV(f, mapping)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return set, nil
}

func readCSV(r io.Reader, mapping ColumnMapping) (*RecordSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	colIdx := map[string]int{}
	var present []string
	for logical, source := range map[string]string{
		ColPerson:     mapping.Person,
		ColService:    mapping.Service,
		ColYear:       mapping.Year,
		ColModality:   mapping.Modality,
		ColComplexity: mapping.Complexity,
	} {
		if source == "" {
			continue
		}
		if i, ok := index[source]; ok {
			colIdx[logical] = i
			present = append(present, logical)
		}
	}

	cell := func(row []string, logical string) string {
		i, ok := colIdx[logical]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := Record{
			Person:     cell(row, ColPerson),
			Service:    cell(row, ColService),
			Modality:   cell(row, ColModality),
			Complexity: cell(row, ColComplexity),
		}
		if y := cell(row, ColYear); y != "" {
			if year, err := strconv.Atoi(y); err == nil {
				rec.Year = year
			}
		}
		out = append(out, rec)
	}

	return NewRecordSet(out, present...), nil
}
