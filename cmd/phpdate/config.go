package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the content of a phpdate config file.
type Config struct {
	// DefaultTimezone is used by values without an explicit zone.
	DefaultTimezone string `toml:"default_timezone" yaml:"default_timezone"`
	// ZoneinfoDir switches zone lookups to the TZif files below this directory.
	ZoneinfoDir string `toml:"zoneinfo_dir" yaml:"zoneinfo_dir"`
	// Layout is the default layout of the format and parse commands.
	Layout string `toml:"layout" yaml:"layout"`
}

// LoadConfig reads a TOML or YAML config file, chosen by the file extension.
// Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return c, errors.Wrapf(err, "decode %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return c, errors.Newf("decode %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, errors.Wrapf(err, "decode %s", path)
		}
	default:
		return c, errors.Newf("unsupported config format %q", ext)
	}
	return c, nil
}
