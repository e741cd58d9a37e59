package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJob_ResolvesRelativeConfigAndSchema(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`schema_version: v1
source:
  kind: kafka
  config: kafka_source.yml
sink:
  kind: file
  path: out.csv
header: true
columns:
  price: "s/\\$//g"
`)
	if err := os.WriteFile(filepath.Join(dir, "job.yml"), raw, 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}

	job, err := LoadJob(filepath.Join(dir, "job.yml"))
	if err != nil {
		t.Fatalf("LoadJob: %v", err)
	}
	if job.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, job.SchemaVersion)
	}
	if !filepath.IsAbs(job.Source.Config) {
		t.Fatalf("want absolute source config path, got %q", job.Source.Config)
	}
	if job.Columns["price"] != `s/\$//g` {
		t.Fatalf("columns not parsed: %v", job.Columns)
	}
}

func TestLoadJob_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`schema_version: v999
columns: { "0": "s/a/b/" }
`)
	if err := os.WriteFile(filepath.Join(dir, "job.yml"), raw, 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	if _, err := LoadJob(filepath.Join(dir, "job.yml")); err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}

func TestJobValidate_DefaultsAndExclusivity(t *testing.T) {
	j := &Job{Columns: map[string]string{"0": "s/a/b/"}}
	if err := j.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if j.Source.Kind != "file" || j.Sink.Kind != "file" {
		t.Fatalf("endpoint defaults not applied: %+v", j)
	}

	j = &Job{Columns: map[string]string{"0": "s/a/b/"}, Modifiers: []string{"s/a/b/"}}
	if err := j.Validate(); err == nil {
		t.Fatal("expected error for both column forms")
	}

	j = &Job{}
	if err := j.Validate(); err == nil {
		t.Fatal("expected error for no modifiers")
	}
}

func TestLoadRuntime_Defaults(t *testing.T) {
	cfg, err := LoadRuntime("")
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if cfg.Exec.TimeoutMS != 30_000 {
		t.Fatalf("want default exec timeout 30000, got %d", cfg.Exec.TimeoutMS)
	}
	if cfg.MetricsPort != 0 {
		t.Fatalf("metrics should default off, got %d", cfg.MetricsPort)
	}
}

func TestLoadRuntime_EnvOverrides(t *testing.T) {
	t.Setenv("CSVSED__EXEC__TIMEOUT_MS", "5")
	t.Setenv("CSVSED__LOG__LEVEL", "debug")
	cfg, err := LoadRuntime("")
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if cfg.Exec.TimeoutMS != 5 {
		t.Fatalf("want exec timeout 5 from env, got %d", cfg.Exec.TimeoutMS)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("want log level debug from env, got %q", cfg.Log.Level)
	}
}
