package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type config struct {
	Addr          string        `yaml:"addr"`
	LexiconsDir   string        `yaml:"lexicons_dir"`
	LogLevel      string        `yaml:"log_level"`
	SourcesDB     string        `yaml:"sources_db"`
	CheckInterval time.Duration `yaml:"check_interval"`
	TLS           tlsConfig     `yaml:"tls"`
	Remote        remoteConfig  `yaml:"remote"`
}

type tlsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

type remoteConfig struct {
	Enabled   bool          `yaml:"enabled"`
	CachePath string        `yaml:"cache_path"`
	CacheSize int           `yaml:"cache_size"`
	TTL       time.Duration `yaml:"ttl"`
}

func defaultConfig() config {
	return config{
		Addr:          ":8420",
		LexiconsDir:   "lexicons",
		LogLevel:      "info",
		CheckInterval: 24 * time.Hour,
		Remote: remoteConfig{
			CachePath: "lookup-cache.db",
			CacheSize: 4096,
			TTL:       30 * 24 * time.Hour,
		},
	}
}

// loadConfig reads path over the defaults. A missing file is not an
// error; found reports whether one was read.
func loadConfig(path string) (cfg config, found bool, err error) {
	cfg = defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg.withDerived(), false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, true, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, true, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg.withDerived(), true, nil
}

func (c config) validate() error {
	if c.TLS.Enabled && (c.TLS.Cert == "") != (c.TLS.Key == "") {
		return errors.New("tls.cert and tls.key must be set together")
	}
	if c.Remote.CacheSize < 0 {
		return errors.New("remote.cache_size must not be negative")
	}
	if c.CheckInterval < 0 {
		return errors.New("check_interval must not be negative")
	}
	return nil
}

func (c config) withDerived() config {
	if c.SourcesDB == "" {
		c.SourcesDB = filepath.Join(c.LexiconsDir, "sources.db")
	}
	return c
}
