package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treedot/pkg/errors"
)

// Config holds defaults read from a TOML file. Empty fields leave the
// built-in default in place; flags given on the command line always win.
//
//	input   = "dumps/kd.stored"
//	output  = "out/kd.svg"
//	variant = "abbreviated"
//	format  = "svg"
//	marker  = ":::"
//	descend = "0,1"
//	mesh    = "part.stl"
//	cache   = false
type Config struct {
	Input   string `toml:"input"`
	Output  string `toml:"output"`
	Variant string `toml:"variant"`
	Format  string `toml:"format"`
	Marker  string `toml:"marker"`
	Descend string `toml:"descend"`
	Mesh    string `toml:"mesh"`
	Cache   *bool  `toml:"cache"`
}

// loadConfig reads the config file and returns it with the path it came
// from. An explicit path must exist. Without one, ./treedot.toml and then
// the XDG config file are tried, and finding neither is not an error.
func loadConfig(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := decodeConfig(explicit)
		return cfg, explicit, err
	}

	candidates := []string{configFileName}
	if dir, err := configDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := decodeConfig(path)
		return cfg, path, err
	}
	return Config{}, "", nil
}

func decodeConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
