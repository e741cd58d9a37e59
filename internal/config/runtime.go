package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Runtime is process-level configuration, independent of any one job.
type Runtime struct {
	Log struct {
		Level string `koanf:"level"`
		JSON  bool   `koanf:"json"`
	} `koanf:"log"`

	// MetricsPort exposes /metrics when non-zero.
	MetricsPort int `koanf:"metrics_port"`

	Exec struct {
		TimeoutMS  int  `koanf:"timeout_ms"` // bounded wait per spawned command
		Continuous bool `koanf:"continuous"` // one persistent subprocess per execute operator
	} `koanf:"exec"`
}

func (r Runtime) ExecTimeout() time.Duration {
	return time.Duration(r.Exec.TimeoutMS) * time.Millisecond
}

// LoadRuntime merges YAML (if present) with env vars
// (prefix `CSVSED__`, delimiter `__`).
func LoadRuntime(path string) (Runtime, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Runtime{}, err
		}
	}
	_ = k.Load(env.Provider("CSVSED__", "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CSVSED__"))
	}), nil)

	var cfg Runtime
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyRuntimeDefaults(&cfg)
	return cfg, nil
}

func applyRuntimeDefaults(c *Runtime) {
	if c.Exec.TimeoutMS == 0 {
		c.Exec.TimeoutMS = 30_000
	}
}
