package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testMapping = ColumnMapping{
	Person:   "PERSON",
	Service:  "SERVICE_TYPE",
	Year:     "YEAR",
	Modality: "MODALITY",
}

func TestReadCSV_HeaderMapping(t *testing.T) {
	in := strings.NewReader(
		"PERSON,SERVICE_TYPE,YEAR,MODALITY\n" +
			"Alice, Radiology ,2022,Outpatient\n" +
			"Bob,Pharmacy,2023,Inpatient\n")

	set, err := readCSV(in, testMapping)
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Expected 2 records, got %d", set.Len())
	}
	for _, col := range []string{ColPerson, ColService, ColYear, ColModality} {
		if !set.HasColumn(col) {
			t.Errorf("Expected column %q present", col)
		}
	}
	if set.HasColumn(ColComplexity) {
		t.Error("Complexity column should be absent")
	}

	first := set.Records[0]
	if first.Person != "Alice" || first.Service != "Radiology" || first.Year != 2022 {
		t.Errorf("Unexpected first record: %+v", first)
	}
}

func TestReadCSV_MissingMappedColumn(t *testing.T) {
	// Source lacks the YEAR header entirely.
	in := strings.NewReader("PERSON,SERVICE_TYPE\nAlice,Radiology\n")

	set, err := readCSV(in, testMapping)
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if set.HasColumn(ColYear) {
		t.Error("Year column should not be declared present")
	}
}

func TestReadCSV_BadYearKeepsRow(t *testing.T) {
	in := strings.NewReader(
		"PERSON,SERVICE_TYPE,YEAR\nAlice,Radiology,not-a-year\n")

	set, err := readCSV(in, testMapping)
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Expected row to survive, got %d records", set.Len())
	}
	if set.Records[0].Year != 0 {
		t.Errorf("Unparsable year should read as 0, got %d", set.Records[0].Year)
	}
}

func TestFindDataFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_usage.csv", "a_usage.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	path, err := FindDataFile(dir, "")
	if err != nil {
		t.Fatalf("FindDataFile failed: %v", err)
	}
	if filepath.Base(path) != "a_usage.csv" {
		t.Errorf("Expected lexicographically first csv, got %s", path)
	}

	path, err = FindDataFile(dir, "b_")
	if err != nil {
		t.Fatalf("FindDataFile with pattern failed: %v", err)
	}
	if filepath.Base(path) != "b_usage.csv" {
		t.Errorf("Pattern match failed, got %s", path)
	}

	if _, err := FindDataFile(dir, "zzz"); err == nil {
		t.Error("Expected error when no file matches pattern")
	}
}

func TestRecordSet_Clone(t *testing.T) {
	set := NewRecordSet([]Record{{Person: "A"}}, ColPerson)
	clone := set.Clone()
	clone.Records[0].Person = "B"
	if set.Records[0].Person != "A" {
		t.Error("Clone shares backing array with original")
	}
	if !clone.HasColumn(ColPerson) {
		t.Error("Clone lost column presence")
	}
}

func TestRecord_Field(t *testing.T) {
	r := Record{Person: "A", Service: "S", Year: 2022, Modality: "Outpatient"}
	cases := []struct {
		col  string
		want string
		ok   bool
	}{
		{ColPerson, "A", true},
		{ColService, "S", true},
		{ColYear, "2022", true},
		{ColModality, "Outpatient", true},
		{ColComplexity, "", true},
		{"unknown", "", false},
	}
	for _, c := range cases {
		got, ok := r.Field(c.col)
		if got != c.want || ok != c.ok {
			t.Errorf("Field(%q) = (%q, %v), want (%q, %v)", c.col, got, ok, c.want, c.ok)
		}
	}

	// A zero year reads as empty so domain checks treat it as missing.
	if got, ok := (Record{}).Field(ColYear); got != "" || !ok {
		t.Errorf("Field(year) on zero year = (%q, %v), want empty and ok", got, ok)
	}
}
