package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
paths:
  data_raw: data/raw
  data_processed: data/processed
  reports: reports
columns:
  person: PERSON
  service: SERVICE_TYPE
  year: YEAR
  modality: MODALITY
domains:
  MODALITY: [Outpatient, Inpatient]
cleaning:
  title_case: true
  drop_missing: true
projection:
  algorithm: pairwise
  workers: 4
outputs:
  bipartite_edges: bipartite_edges.csv
  projection_edges: projection_edges.csv
  metrics_summary: metrics_summary.csv
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Projection.Algorithm != AlgorithmPairwise {
		t.Errorf("Expected pairwise algorithm, got %q", cfg.Projection.Algorithm)
	}
	if cfg.Projection.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Projection.Workers)
	}
	// Expected columns default to the mapped ones.
	want := []string{"PERSON", "SERVICE_TYPE", "YEAR", "MODALITY"}
	if len(cfg.Columns.Expected) != len(want) {
		t.Fatalf("Expected columns %v, got %v", want, cfg.Columns.Expected)
	}
	for i, col := range want {
		if cfg.Columns.Expected[i] != col {
			t.Errorf("Expected column %d = %q, got %q", i, col, cfg.Columns.Expected[i])
		}
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	yaml := strings.Replace(validYAML, "algorithm: pairwise", "", 1)
	yaml = strings.Replace(yaml, "workers: 4", "", 1)
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Projection.Algorithm != AlgorithmIndex {
		t.Errorf("Default algorithm should be index, got %q", cfg.Projection.Algorithm)
	}
	if cfg.Projection.Workers <= 0 {
		t.Errorf("Default workers should be positive, got %d", cfg.Projection.Workers)
	}
	if cfg.Outputs.CleaningLogMD != "cleaning_log.md" {
		t.Errorf("Default cleaning log name missing, got %q", cfg.Outputs.CleaningLogMD)
	}
}

func TestLoad_RejectsUnknownAlgorithm(t *testing.T) {
	yaml := strings.Replace(validYAML, "algorithm: pairwise", "algorithm: quantum", 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("Expected error for unknown algorithm")
	}
}

func TestLoad_RejectsMissingRequiredColumn(t *testing.T) {
	yaml := strings.Replace(validYAML, "year: YEAR", "", 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("Expected error for missing year column mapping")
	}
}

func TestLoad_RejectsDomainOnUnknownColumn(t *testing.T) {
	yaml := strings.Replace(validYAML, "MODALITY: [Outpatient, Inpatient]", "GHOST: [A, B]", 1)
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("Expected error for domain on unknown column")
	}
}

func TestSectionValidator_CollectsAllErrors(t *testing.T) {
	sv := NewSectionValidator("test")
	sv.Required("a", "").Positive("b", -1).OneOf("c", "x", "y", "z")
	err := sv.Err()
	if err == nil {
		t.Fatal("Expected errors")
	}
	for _, frag := range []string{"test.a", "test.b", "test.c"} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("Expected %q in error, got %q", frag, err.Error())
		}
	}
}
