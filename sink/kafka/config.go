package kafka

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadConfig merges YAML (if present) with env vars
// (prefix `CSVSED_KAFKA_SINK__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("CSVSED_KAFKA_SINK__", "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CSVSED_KAFKA_SINK__"))
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.Acks == 0 {
		cfg.Acks = 1
	}
	return cfg, nil
}
