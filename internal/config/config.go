// Package config loads extractor settings from an optional YAML file
// overlaid with BAROHEAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"barohead/internal/blob"
	"barohead/internal/persist"
	"barohead/internal/source"

	"gopkg.in/yaml.v3"
)

// DriverNone disables the output publish or the storage snapshot.
const DriverNone = "none"

// Config is the complete extractor configuration.
type Config struct {
	Input           InputConfig   `yaml:"input"`
	Output          OutputConfig  `yaml:"output"`
	Storage         StorageConfig `yaml:"storage"`
	S3              S3Config      `yaml:"s3"`
	Workers         int           `yaml:"workers"`
	LogLevel        string        `yaml:"log_level"`
	MetricsTextfile string        `yaml:"metrics_textfile"`
	RecipesOnly     bool          `yaml:"recipes_only"`
}

// InputConfig locates the game content.
type InputConfig struct {
	Driver         string `yaml:"driver"`
	Root           string `yaml:"root"`
	ItemsPrefix    string `yaml:"items_prefix"`
	TextsPrefix    string `yaml:"texts_prefix"`
	RecursiveTexts bool   `yaml:"recursive_texts"`
}

// OutputConfig describes where finished databases are published.
type OutputConfig struct {
	Driver string `yaml:"driver"`
	Root   string `yaml:"root"`
	Prefix string `yaml:"prefix"`
}

// StorageConfig selects the snapshot store.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// S3Config is shared by the input and output stores when either uses s3.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Driver:      string(blob.DriverFilesystem),
			Root:        ".",
			ItemsPrefix: source.DefaultItemsPrefix,
			TextsPrefix: source.DefaultTextsPrefix,
		},
		Output: OutputConfig{
			Driver: DriverNone,
			Prefix: "itemdb",
		},
		Storage: StorageConfig{
			Driver:     DriverNone,
			SQLitePath: "barohead.db",
		},
		Workers:  1,
		LogLevel: "info",
	}
}

// Load reads path (skipped when empty), applies the environment and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays BAROHEAD_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", key, v)
		}
		*dst = b
		return nil
	}

	str("BAROHEAD_INPUT_DRIVER", &c.Input.Driver)
	str("BAROHEAD_INPUT_ROOT", &c.Input.Root)
	str("BAROHEAD_ITEMS_PREFIX", &c.Input.ItemsPrefix)
	str("BAROHEAD_TEXTS_PREFIX", &c.Input.TextsPrefix)
	str("BAROHEAD_OUTPUT_DRIVER", &c.Output.Driver)
	str("BAROHEAD_OUTPUT_ROOT", &c.Output.Root)
	str("BAROHEAD_OUTPUT_PREFIX", &c.Output.Prefix)
	str("BAROHEAD_BLOB_S3_BUCKET", &c.S3.Bucket)
	str("BAROHEAD_BLOB_S3_REGION", &c.S3.Region)
	str("BAROHEAD_BLOB_S3_ENDPOINT", &c.S3.Endpoint)
	str("BAROHEAD_STORAGE_DRIVER", &c.Storage.Driver)
	str("BAROHEAD_SQLITE_PATH", &c.Storage.SQLitePath)
	str("BAROHEAD_POSTGRES_DSN", &c.Storage.PostgresDSN)
	str("BAROHEAD_LOG_LEVEL", &c.LogLevel)
	str("BAROHEAD_METRICS_TEXTFILE", &c.MetricsTextfile)

	if err := boolean("BAROHEAD_BLOB_S3_PATH_STYLE", &c.S3.PathStyle); err != nil {
		return err
	}
	if err := boolean("BAROHEAD_RECURSIVE_TEXTS", &c.Input.RecursiveTexts); err != nil {
		return err
	}
	if err := boolean("BAROHEAD_RECIPES_ONLY", &c.RecipesOnly); err != nil {
		return err
	}
	if v, ok := lookup("BAROHEAD_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BAROHEAD_WORKERS: invalid integer %q", v)
		}
		c.Workers = n
	}
	return nil
}

// Validate rejects unknown drivers and levels and a worker count below one.
func (c *Config) Validate() error {
	var errs []error
	switch blob.Driver(c.Input.Driver) {
	case blob.DriverFilesystem, blob.DriverS3, blob.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("input driver %q: want fs, s3 or memory", c.Input.Driver))
	}
	switch c.Output.Driver {
	case DriverNone, string(blob.DriverFilesystem), string(blob.DriverS3), string(blob.DriverMemory):
	default:
		errs = append(errs, fmt.Errorf("output driver %q: want none, fs, s3 or memory", c.Output.Driver))
	}
	switch c.Storage.Driver {
	case DriverNone, string(persist.DriverMemory), string(persist.DriverSQLite), string(persist.DriverPostgres):
	default:
		errs = append(errs, fmt.Errorf("storage driver %q: want none, memory, sqlite or postgres", c.Storage.Driver))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if (c.Input.Driver == string(blob.DriverS3) || c.Output.Driver == string(blob.DriverS3)) && c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3 bucket required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Layout returns the discovery layout for the input store.
func (c *Config) Layout() source.Layout {
	return source.Layout{
		ItemsPrefix:    c.Input.ItemsPrefix,
		TextsPrefix:    c.Input.TextsPrefix,
		RecursiveTexts: c.Input.RecursiveTexts,
	}
}

// InputBlob returns the options for opening the input store.
func (c *Config) InputBlob() blob.Options {
	return blob.Options{Driver: blob.Driver(c.Input.Driver), Root: c.Input.Root, S3: c.s3()}
}

// OutputBlob returns the options for the publish store and whether
// publishing is enabled.
func (c *Config) OutputBlob() (blob.Options, bool) {
	if c.Output.Driver == "" || c.Output.Driver == DriverNone {
		return blob.Options{}, false
	}
	return blob.Options{Driver: blob.Driver(c.Output.Driver), Root: c.Output.Root, S3: c.s3()}, true
}

// Persist returns the snapshot store options and whether persistence is
// enabled.
func (c *Config) Persist() (persist.Options, bool) {
	if c.Storage.Driver == "" || c.Storage.Driver == DriverNone {
		return persist.Options{}, false
	}
	return persist.Options{
		Driver:      persist.Driver(c.Storage.Driver),
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
	}, true
}

func (c *Config) s3() blob.S3Config {
	return blob.S3Config{
		Bucket:    c.S3.Bucket,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		PathStyle: c.S3.PathStyle,
	}
}
