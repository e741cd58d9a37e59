// Package config loads runtime settings and job specs for the csvsed engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const SupportedSchema = "v1"

// Endpoint names one end of the stream. Kind selects the registered driver
// ("file", "kafka"); Path is the file path for file drivers ("-" means
// stdin/stdout); Config points at a driver-specific config file, resolved
// relative to the job file.
type Endpoint struct {
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path"`
	Config string `yaml:"config"`
}

// Job describes one invocation: where rows come from, which columns get
// which modifier expressions, and where rows go.
type Job struct {
	SchemaVersion string `yaml:"schema_version"`

	Source Endpoint `yaml:"source"`
	Sink   Endpoint `yaml:"sink"`

	// Header marks the first row as a header: it passes through unmodified
	// and its names are usable as column keys.
	Header bool `yaml:"header"`

	// Columns keys modifier expressions by header name or 0-based index.
	Columns map[string]string `yaml:"columns"`
	// Modifiers is the positional alternative, aligned with column 0..n.
	// Mutually exclusive with Columns.
	Modifiers []string `yaml:"modifiers"`
}

// LoadJob parses a job YAML, validates schema_version, applies endpoint
// defaults, and makes nested config paths absolute relative to the job file.
func LoadJob(path string) (Job, error) {
	var job Job
	raw, err := os.ReadFile(path)
	if err != nil {
		return job, err
	}
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return job, err
	}
	if job.SchemaVersion == "" {
		job.SchemaVersion = SupportedSchema
	}
	if job.SchemaVersion != SupportedSchema {
		return job, fmt.Errorf("job schema_version %q not supported (want %q)", job.SchemaVersion, SupportedSchema)
	}
	if err := job.Validate(); err != nil {
		return job, err
	}
	dir := filepath.Dir(path)
	job.Source.Config = absolutize(dir, job.Source.Config)
	job.Sink.Config = absolutize(dir, job.Sink.Config)
	return job, nil
}

// Validate checks the parts of a Job that do not depend on how it was built,
// so flag-constructed jobs go through the same gate as YAML ones.
func (j *Job) Validate() error {
	if j.Source.Kind == "" {
		j.Source.Kind = "file"
	}
	if j.Sink.Kind == "" {
		j.Sink.Kind = "file"
	}
	if len(j.Columns) > 0 && len(j.Modifiers) > 0 {
		return fmt.Errorf("job: columns and modifiers are mutually exclusive")
	}
	if len(j.Columns) == 0 && len(j.Modifiers) == 0 {
		return fmt.Errorf("job: no modifiers configured")
	}
	return nil
}

func absolutize(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
