package kafka

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncode_QuotesEmbeddedDelimiters(t *testing.T) {
	d := &driver{}
	out, err := d.encode([]string{"a", "b,c", "d"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != "a,\"b,c\",d\n" {
		t.Fatalf("got %q", out)
	}
}

func TestLoadConfig_DefaultsAndYAML(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Acks != 1 {
		t.Fatalf("want default acks 1, got %d", cfg.Acks)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "sink.yml")
	if err := os.WriteFile(path, []byte("brokers: [\"k1:9092\"]\ntopic: out\nrequired_acks: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Topic != "out" || cfg.Acks != -1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CSVSED_KAFKA_SINK__TOPIC", "rows_out")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Topic != "rows_out" {
		t.Fatalf("want topic from env, got %q", cfg.Topic)
	}
}
