package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the tdmsinspect configuration file
// (~/.config/tdmsinspect/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	LogLevel        string `yaml:"log_level"`
	BucketDir       string `yaml:"bucket_dir"`
	Mmap            *bool  `yaml:"mmap"`
	Decompress      *bool  `yaml:"decompress"`
	MaxReadSize     *int   `yaml:"max_read_size"`
	StringCacheSize *int   `yaml:"string_cache_size"`
	NoColor         *bool  `yaml:"no_color"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "tdmsinspect", "config.yaml")
}

// loadConfig reads the config file at path. A missing file yields a zero
// Config unless the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}

		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// apply copies config file values into flags the user did not set.
func (in *inspector) apply(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		in.logLevel = cfg.LogLevel
	}
	if cfg.BucketDir != "" && !c.IsSet("bucket-dir") {
		in.bucketDir = cfg.BucketDir
	}
	if cfg.Mmap != nil && !c.IsSet("mmap") {
		in.mmap = *cfg.Mmap
	}
	if cfg.Decompress != nil && !c.IsSet("decompress") {
		in.decompress = *cfg.Decompress
	}
	if cfg.MaxReadSize != nil && !c.IsSet("max-read-size") {
		in.maxReadSize = *cfg.MaxReadSize
	}
	if cfg.StringCacheSize != nil && !c.IsSet("string-cache-size") {
		in.stringCacheSize = *cfg.StringCacheSize
	}
	if cfg.NoColor != nil && !c.IsSet("no-color") {
		in.noColor = *cfg.NoColor
	}
}
