// Package config loads engine configuration from YAML: layout force tuning,
// introduction cost multipliers, dataset source settings and the frame
// stream. Everything has a working default; a config file only overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/signalvc/relgraph/pkg/graph"
	"github.com/signalvc/relgraph/pkg/intro"
	"github.com/signalvc/relgraph/pkg/layout"
)

// ErrInvalidConfig wraps all configuration rejections.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full engine configuration.
type Config struct {
	// LogLevel overrides the RELGRAPH_LOG_LEVEL environment variable when
	// set. One of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	Layout  layout.Config `yaml:"layout"`
	Intro   IntroConfig   `yaml:"intro"`
	Dataset DatasetConfig `yaml:"dataset"`
	Stream  StreamConfig  `yaml:"stream"`
}

// IntroConfig tunes the warm-introduction search.
type IntroConfig struct {
	MaxHops  int `yaml:"max_hops" validate:"min=1,max=10"`
	MaxPaths int `yaml:"max_paths" validate:"min=1,max=25"`

	// Multipliers keys link type names to cost weights; unset types fall
	// back to the shipped defaults.
	Multipliers map[string]float64 `yaml:"multipliers"`
}

// MultiplierTable resolves the configured weights over the defaults.
func (c IntroConfig) MultiplierTable() (intro.Multipliers, error) {
	m := intro.DefaultMultipliers()
	for name, v := range c.Multipliers {
		lt, err := graph.ParseLinkType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: multiplier %q: %v", ErrInvalidConfig, name, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%w: multiplier %q must be positive, got %v", ErrInvalidConfig, name, v)
		}
		m[lt] = v
	}
	return m, nil
}

// DatasetConfig selects and configures the snapshot source.
type DatasetConfig struct {
	// Source is the loader kind: file, postgres or s3.
	Source string `yaml:"source" validate:"oneof=file postgres s3"`

	File     FileSourceConfig `yaml:"file"`
	Postgres PostgresConfig   `yaml:"postgres"`
	S3       S3Config         `yaml:"s3"`
}

// FileSourceConfig points at a snapshot on disk. Paths ending in .snappy are
// decompressed on read.
type FileSourceConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig carries pgx pool settings for the investor database.
type PostgresConfig struct {
	DSN            string        `yaml:"dsn"`
	MaxConns       int32         `yaml:"max_conns" validate:"min=0"`
	MinConns       int32         `yaml:"min_conns" validate:"min=0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// S3Config addresses a snapshot object. Keys ending in .snappy are
// decompressed on read.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
	Region string `yaml:"region"`
}

// StreamConfig configures the layout frame broadcast.
type StreamConfig struct {
	// BufferSize is the per-subscriber frame buffer; a full buffer drops
	// the incoming frame rather than stall the simulation.
	BufferSize int `yaml:"buffer_size" validate:"min=0"`

	// PublishAddr, when set, opens a mangos PUB socket at this address
	// (e.g. tcp://127.0.0.1:7780) bridging frames out of process.
	PublishAddr string `yaml:"publish_addr"`
}

// Default returns the configuration the engine runs with when no file is
// given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Layout:   layout.DefaultConfig(),
		Intro: IntroConfig{
			MaxHops:  3,
			MaxPaths: 1,
		},
		Dataset: DatasetConfig{
			Source: "file",
			File:   FileSourceConfig{Path: "snapshot.json"},
			Postgres: PostgresConfig{
				MaxConns:       4,
				MinConns:       1,
				ConnectTimeout: 5 * time.Second,
			},
		},
		Stream: StreamConfig{
			BufferSize: 64,
		},
	}
}

// Load reads and validates a YAML config file layered over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Intro.MultiplierTable(); err != nil {
		return err
	}
	switch c.Dataset.Source {
	case "file":
		if c.Dataset.File.Path == "" {
			return fmt.Errorf("%w: dataset.file.path is required for the file source", ErrInvalidConfig)
		}
	case "postgres":
		if c.Dataset.Postgres.DSN == "" {
			return fmt.Errorf("%w: dataset.postgres.dsn is required for the postgres source", ErrInvalidConfig)
		}
	case "s3":
		if c.Dataset.S3.Bucket == "" || c.Dataset.S3.Key == "" {
			return fmt.Errorf("%w: dataset.s3.bucket and key are required for the s3 source", ErrInvalidConfig)
		}
	}
	return nil
}
