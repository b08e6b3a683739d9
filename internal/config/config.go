// Package config loads the run configuration of the feelgood command.
//
// Values are resolved in viper's precedence order: explicit overrides (the
// command line flags that were set), FEELGOOD_* environment variables, the
// config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/format"
	"github.com/arloliu/feelgood/generator"
	"github.com/arloliu/feelgood/runner"
	"github.com/arloliu/feelgood/section"
)

// EnvPrefix prefixes every environment variable, e.g. FEELGOOD_SECTION_LENGTH.
const EnvPrefix = "FEELGOOD"

// Configuration keys. They double as flag names of the command.
const (
	KeySections      = "sections"
	KeySectionLength = "section-length"
	KeyCount         = "count"
	KeyStartIndex    = "start-index"
	KeyLayout        = "layout"
	KeyTags          = "tags"
	KeyCompression   = "compression"
	KeyOutput        = "output"
	KeyAtomic        = "atomic"
	KeySync          = "sync"
	KeyManifest      = "manifest"
	KeyStopOnError   = "stop-on-error"
	KeyMetricsFile   = "metrics-file"
	KeyPushGateway   = "push-gateway"
	KeyDebug         = "debug"
)

// Defaults.
const (
	DefaultCount     = 1000
	DefaultOutput    = "./output"
	DefaultConfigDir = "~/.feelgood"
)

// RunConfig is the resolved configuration of one command invocation.
type RunConfig struct {
	Sections      int    `mapstructure:"sections"`
	SectionLength int    `mapstructure:"section-length"`
	Count         uint64 `mapstructure:"count"`
	// StartIndex is decimal, or hexadecimal with a 0x prefix.
	StartIndex  string `mapstructure:"start-index"`
	Layout      string `mapstructure:"layout"`
	Tags        []int  `mapstructure:"tags"`
	Compression string `mapstructure:"compression"`
	Output      string `mapstructure:"output"`
	Atomic      bool   `mapstructure:"atomic"`
	Sync        bool   `mapstructure:"sync"`
	Manifest    bool   `mapstructure:"manifest"`
	StopOnError bool   `mapstructure:"stop-on-error"`
	MetricsFile string `mapstructure:"metrics-file"`
	PushGateway string `mapstructure:"push-gateway"`
	Debug       bool   `mapstructure:"debug"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeySections, 1)
	v.SetDefault(KeySectionLength, section.DefaultSectionLength)
	v.SetDefault(KeyCount, DefaultCount)
	v.SetDefault(KeyStartIndex, "0")
	v.SetDefault(KeyLayout, format.LayoutRaw.String())
	v.SetDefault(KeyTags, []int{})
	v.SetDefault(KeyCompression, format.CompressionNone.String())
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyAtomic, true)
	v.SetDefault(KeySync, false)
	v.SetDefault(KeyManifest, false)
	v.SetDefault(KeyStopOnError, false)
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyPushGateway, "")
	v.SetDefault(KeyDebug, false)

	return v
}

// Load resolves a RunConfig.
//
// An empty path looks for config.{yaml,toml,json} in DefaultConfigDir and
// tolerates its absence; an explicit path must exist. overrides take
// precedence over every other source.
func Load(path string, overrides map[string]any) (RunConfig, error) {
	v := New()
	if err := readConfigFile(v, path); err != nil {
		return RunConfig{}, err
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decode config: %w", err)
	}

	output, err := homedir.Expand(cfg.Output)
	if err != nil {
		return RunConfig{}, fmt.Errorf("expand output path: %w", err)
	}
	cfg.Output = output

	if cfg.MetricsFile != "" {
		if cfg.MetricsFile, err = homedir.Expand(cfg.MetricsFile); err != nil {
			return RunConfig{}, fmt.Errorf("expand metrics path: %w", err)
		}
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", expanded, err)
		}

		return nil
	}

	dir, err := homedir.Expand(DefaultConfigDir)
	if err != nil {
		return fmt.Errorf("expand config dir: %w", err)
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read config in %s: %w", dir, err)
	}

	return nil
}

// ParseStartIndex parses the start index. It accepts decimal and 0x-prefixed
// hexadecimal; an empty string is zero.
func (c RunConfig) ParseStartIndex() (*big.Int, error) {
	raw := strings.TrimSpace(c.StartIndex)
	if raw == "" {
		return new(big.Int), nil
	}

	index, ok := new(big.Int).SetString(raw, 0)
	if !ok || index.Sign() < 0 {
		return nil, fmt.Errorf("start index %q: %w", c.StartIndex, errs.ErrStartIndexOutOfRange)
	}

	return index, nil
}

// LayoutType returns the configured section layout.
func (c RunConfig) LayoutType() (format.LayoutType, error) {
	layout, ok := format.ParseLayout(c.Layout)
	if !ok {
		return 0, fmt.Errorf("layout %q: %w", c.Layout, errs.ErrInvalidLayout)
	}

	return layout, nil
}

// CompressionType returns the configured output compression.
func (c RunConfig) CompressionType() (format.CompressionType, error) {
	ct, ok := format.ParseCompression(c.Compression)
	if !ok {
		return 0, fmt.Errorf("compression %q: %w", c.Compression, errs.ErrInvalidCompression)
	}

	return ct, nil
}

// SectionTags returns the TLV tag bytes, or nil for the default tags.
func (c RunConfig) SectionTags() ([]byte, error) {
	if len(c.Tags) == 0 {
		return nil, nil
	}

	tags := make([]byte, len(c.Tags))
	for i, t := range c.Tags {
		if t < 0 || t > 0xFF {
			return nil, fmt.Errorf("tag %d: %w", t, errs.ErrInvalidSectionTag)
		}
		tags[i] = byte(t)
	}

	return tags, nil
}

// GeneratorConfig converts c into a validated generator configuration.
func (c RunConfig) GeneratorConfig() (generator.Config, error) {
	layout, err := c.LayoutType()
	if err != nil {
		return generator.Config{}, err
	}
	start, err := c.ParseStartIndex()
	if err != nil {
		return generator.Config{}, err
	}
	tags, err := c.SectionTags()
	if err != nil {
		return generator.Config{}, err
	}

	gc := generator.Config{
		Count:       c.Count,
		StartIndex:  start,
		Layout:      layout,
		SectionTags: tags,
	}
	if c.Sections <= 0 {
		return generator.Config{}, errs.ErrNoSections
	}
	gc.SectionLengths = make([]int, c.Sections)
	for i := range gc.SectionLengths {
		gc.SectionLengths[i] = c.SectionLength
	}

	if err := gc.Validate(); err != nil {
		return generator.Config{}, err
	}

	return gc, nil
}

// SweepConfig converts c into a sweep over 1..Sections section counts.
func (c RunConfig) SweepConfig() (runner.SweepConfig, error) {
	layout, err := c.LayoutType()
	if err != nil {
		return runner.SweepConfig{}, err
	}
	if c.Sections <= 0 {
		return runner.SweepConfig{}, errs.ErrNoSections
	}
	if c.SectionLength <= 0 {
		return runner.SweepConfig{}, errs.ErrInvalidSectionLength
	}

	return runner.SweepConfig{
		MaxSections:   c.Sections,
		SectionLength: c.SectionLength,
		PerCount:      c.Count,
		Layout:        layout,
	}, nil
}

// ManifestPath returns the manifest location inside the output directory.
func (c RunConfig) ManifestPath() string {
	return filepath.Join(c.Output, runner.ManifestName)
}
