package kafka

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StartFrom != "newest" {
		t.Fatalf("want start_from newest, got %q", cfg.StartFrom)
	}
	if cfg.Buffer != 1024 {
		t.Fatalf("want buffer 1024, got %d", cfg.Buffer)
	}
	if cfg.Version == "" {
		t.Fatal("version default missing")
	}
}

func TestLoadConfig_FromYAML(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`brokers: ["k1:9092", "k2:9092"]
topics: ["rows"]
group_id: csvsed
start_from: oldest
buffer: 16
`)
	path := filepath.Join(dir, "kafka.yml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.Brokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("brokers: %v", cfg.Brokers)
	}
	if cfg.StartFrom != "oldest" || cfg.GroupID != "csvsed" || cfg.Buffer != 16 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CSVSED_KAFKA__GROUP_ID", "override")
	t.Setenv("CSVSED_KAFKA__START_FROM", "oldest")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GroupID != "override" {
		t.Fatalf("want group_id from env, got %q", cfg.GroupID)
	}
	if cfg.StartFrom != "oldest" {
		t.Fatalf("want start_from from env, got %q", cfg.StartFrom)
	}
}

func TestDecode_SplitsMessageValue(t *testing.T) {
	d := &SaramaDriver{cfg: Config{}}
	row, err := d.decode([]byte("a,\"b,c\",d\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(row, []string{"a", "b,c", "d"}) {
		t.Fatalf("got %v", row)
	}
}
