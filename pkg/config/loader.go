package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "FAMTREE_"

// searchFiles are tried in the working directory when no file is given.
var searchFiles = []string{AppName + ".toml", AppName + ".yaml", AppName + ".yml"}

// flagKeys maps flag names to config keys where they differ from the
// kebab-to-snake rule. Flags absent from both this map and the defaults are
// not configuration and are ignored.
var flagKeys = map[string]string{
	"root":  "master_root",
	"title": "master_title",
	"label": "dataset_label",

	"mongo-uri":  "publish.mongo_uri",
	"database":   "publish.database",
	"collection": "publish.collection",
}

// Load resolves the configuration.
//
// path names an explicit config file; when empty, famtree.toml, famtree.yaml
// and famtree.yml are tried in the working directory. flags may be nil; only
// flags that were explicitly set override lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := Defaults()
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	used, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), parserFor(used)); err != nil {
			return nil, fterrors.Wrap(fterrors.ErrCodeInvalidConfig, err, "read config file %s", used)
		}
	}

	// 3. Environment: FAMTREE_CACHE__BACKEND -> cache.backend
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	// 4. Explicitly set flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			if _, known := defaults[key]; !known {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.File = used
	return &cfg, nil
}

// envKey converts an environment variable name to a config key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// findConfigFile returns the explicit path, which must exist, or the first
// search file present in the working directory, or "".
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "config file %s", explicit)
		}
		return explicit, nil
	}
	for _, name := range searchFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// parserFor picks the koanf parser by file extension; anything that is not
// YAML is read as TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return TOMLParser()
	}
}
