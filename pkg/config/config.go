// Package config loads and validates the pipeline configuration file.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Projection algorithm names accepted in the config file.
const (
	AlgorithmIndex    = "index"
	AlgorithmPairwise = "pairwise"
	AlgorithmParallel = "parallel"
)

// Config is the full pipeline configuration.
type Config struct {
	Paths      PathsConfig         `yaml:"paths" validate:"required"`
	Columns    ColumnsConfig       `yaml:"columns" validate:"required"`
	Domains    map[string][]string `yaml:"domains"`
	Cleaning   CleaningConfig      `yaml:"cleaning"`
	Projection ProjectionConfig    `yaml:"projection"`
	Outputs    OutputsConfig       `yaml:"outputs" validate:"required"`
}

// PathsConfig holds the filesystem layout of a run.
type PathsConfig struct {
	DataRaw       string `yaml:"data_raw" validate:"required"`
	DataProcessed string `yaml:"data_processed" validate:"required"`
	Reports       string `yaml:"reports" validate:"required"`
}

// ColumnsConfig maps the logical record fields to source column headers.
type ColumnsConfig struct {
	Person     string   `yaml:"person" validate:"required"`
	Service    string   `yaml:"service" validate:"required"`
	Year       string   `yaml:"year" validate:"required"`
	Modality   string   `yaml:"modality"`
	Complexity string   `yaml:"complexity"`
	Expected   []string `yaml:"expected"`
}

// CleaningConfig controls the text normalization and filtering stage.
type CleaningConfig struct {
	TitleCase    bool     `yaml:"title_case"`
	StripAccents bool     `yaml:"strip_accents"`
	DropMissing  bool     `yaml:"drop_missing"`
	DedupeKeys   []string `yaml:"dedupe_keys"`
}

// ProjectionConfig selects the projection algorithm.
type ProjectionConfig struct {
	Algorithm string `yaml:"algorithm"`
	Workers   int    `yaml:"workers"`
}

// OutputsConfig names the files the reporting stage writes.
type OutputsConfig struct {
	BipartiteEdges   string `yaml:"bipartite_edges" validate:"required"`
	ProjectionEdges  string `yaml:"projection_edges" validate:"required"`
	MetricsSummary   string `yaml:"metrics_summary" validate:"required"`
	CleaningLogCSV   string `yaml:"cleaning_log_csv"`
	CleaningLogMD    string `yaml:"cleaning_log_md"`
	DegreeDist       string `yaml:"degree_distribution"`
	StrengthDist     string `yaml:"strength_distribution"`
}

var validate = validator.New()

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Projection.Algorithm == "" {
		c.Projection.Algorithm = AlgorithmIndex
	}
	if c.Projection.Workers == 0 {
		c.Projection.Workers = runtime.NumCPU()
	}
	if c.Outputs.CleaningLogCSV == "" {
		c.Outputs.CleaningLogCSV = "cleaning_log.csv"
	}
	if c.Outputs.CleaningLogMD == "" {
		c.Outputs.CleaningLogMD = "cleaning_log.md"
	}
	if len(c.Columns.Expected) == 0 {
		c.Columns.Expected = c.requiredColumns()
	}
}

func (c *Config) requiredColumns() []string {
	cols := []string{c.Columns.Person, c.Columns.Service, c.Columns.Year}
	if c.Columns.Modality != "" {
		cols = append(cols, c.Columns.Modality)
	}
	if c.Columns.Complexity != "" {
		cols = append(cols, c.Columns.Complexity)
	}
	return cols
}

// Validate applies the cross-field rules the struct tags cannot express.
func (c *Config) Validate() error {
	sv := NewSectionValidator("config")
	sv.OneOf("projection.algorithm", c.Projection.Algorithm,
		AlgorithmIndex, AlgorithmPairwise, AlgorithmParallel)
	sv.Positive("projection.workers", c.Projection.Workers)

	// Domains may only constrain columns the record schema knows about.
	known := map[string]bool{}
	for _, col := range c.Columns.Expected {
		known[col] = true
	}
	for col := range c.Domains {
		if !known[col] {
			sv.Fail("domains", fmt.Sprintf("domain configured for unknown column %q", col))
		}
	}
	return sv.Err()
}
