package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tsjoi/internal/compiler"
)

// Config is the optional tsjoi.yaml file. Flags take precedence over it,
// and it over built-in defaults.
type Config struct {
	Generator struct {
		Suffix               string `yaml:"suffix"`
		OutDir               string `yaml:"out_dir"`
		IgnoreGenerics       bool   `yaml:"ignore_generics"`
		IgnoreIndexSignature bool   `yaml:"ignore_index_signature"`
		InlineImports        bool   `yaml:"inline_imports"`
	} `yaml:"generator"`
	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

// Load reads the config file, if present, and applies environment overrides.
// A missing file yields defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	// Pick up a local .env first so env overrides work in dev setups.
	_ = godotenv.Load()

	var cfg Config
	cfg.Generator.Suffix = compiler.DefaultSuffix
	cfg.Cache.Path = "tsjoi.db"

	file, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if cfg.Generator.Suffix == "" {
		cfg.Generator.Suffix = compiler.DefaultSuffix
	}
	if suffix := os.Getenv("TSJOI_SUFFIX"); suffix != "" {
		cfg.Generator.Suffix = suffix
	}
	if outDir := os.Getenv("TSJOI_OUT_DIR"); outDir != "" {
		cfg.Generator.OutDir = outDir
	}

	return &cfg, nil
}

// Options maps the config onto the compiler's option record.
func (c *Config) Options() compiler.Options {
	return compiler.Options{
		Suffix:               c.Generator.Suffix,
		OutDir:               c.Generator.OutDir,
		IgnoreGenerics:       c.Generator.IgnoreGenerics,
		IgnoreIndexSignature: c.Generator.IgnoreIndexSignature,
		InlineImports:        c.Generator.InlineImports,
	}
}
