// FILE: config.go
package ringlog

import (
	"errors"
	"os"
	"strings"

	lxconfig "github.com/lixenwraith/config"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds every configurable option for the logging pipeline,
// covering sink destinations, severity/output toggles, ring sizing, and
// the compression/retention/diagnostics extensions.
type Config struct {
	// Sink destinations and retention
	LogDir       string `toml:"log_dir" yaml:"log_dir"`
	FilePrefix   string `toml:"file_prefix" yaml:"file_prefix"`
	MaxFileBytes int64  `toml:"max_file_bytes" yaml:"max_file_bytes"`
	MaxFiles     int    `toml:"max_files" yaml:"max_files"`

	// Severity and output toggles
	MinLevel           Level `toml:"min_level" yaml:"min_level"`
	ConsoleOutput      bool  `toml:"console_output" yaml:"console_output"`
	FileOutput         bool  `toml:"file_output" yaml:"file_output"`
	UseColors          bool  `toml:"use_colors" yaml:"use_colors"`
	ShowTimestamp      bool  `toml:"show_timestamp" yaml:"show_timestamp"`
	ShowThreadID       bool  `toml:"show_thread_id" yaml:"show_thread_id"`
	ShowSourceLocation bool  `toml:"show_source_location" yaml:"show_source_location"`
	ShowModuleName     bool  `toml:"show_module_name" yaml:"show_module_name"`
	ShowFullPath       bool  `toml:"show_full_path" yaml:"show_full_path"`

	// Ring sizing (recommended >= 2^16)
	RingCapacity int64 `toml:"ring_capacity" yaml:"ring_capacity"`

	// Compression/retention workers/diagnostics
	CompressRotated  bool   `toml:"compress_rotated" yaml:"compress_rotated"`
	RetentionWorkers int    `toml:"retention_workers" yaml:"retention_workers"`
	InternalDiagPath string `toml:"internal_diag_path" yaml:"internal_diag_path"`
	ConsoleTarget    string `toml:"console_target" yaml:"console_target"` // "stdout" or "stderr"
	TimestampFormat  string `toml:"timestamp_format" yaml:"timestamp_format"`

	// Disk-quota cleanup, enforced by runRetention alongside max_files:
	// MaxTotalSizeMB bounds the directory's total matching-file size (0
	// disables the check), MinDiskFreeMB is the free-space floor below
	// which retention keeps deleting archives even under max_files (0
	// disables the check).
	MaxTotalSizeMB int64 `toml:"max_total_size_mb" yaml:"max_total_size_mb"`
	MinDiskFreeMB  int64 `toml:"min_disk_free_mb" yaml:"min_disk_free_mb"`
}

var defaultConfig = Config{
	LogDir:             "logs",
	FilePrefix:         "app",
	MaxFileBytes:       10 * 1024 * 1024,
	MaxFiles:           5,
	MinLevel:           LevelInfo,
	ConsoleOutput:      true,
	FileOutput:         true,
	UseColors:          true,
	ShowTimestamp:      true,
	ShowThreadID:       true,
	ShowSourceLocation: true,
	ShowModuleName:     true,
	ShowFullPath:       false,
	RingCapacity:       defaultRingCapacity,
	CompressRotated:    false,
	RetentionWorkers:   4,
	InternalDiagPath:   "",
	ConsoleTarget:      "stdout",
	TimestampFormat:    "2006-01-02 15:04:05.000",
	MaxTotalSizeMB:     0,
	MinDiskFreeMB:      0,
}

// DefaultConfig returns a copy of the package's default configuration.
func DefaultConfig() *Config {
	cp := defaultConfig
	return &cp
}

// Clone returns a deep copy. Config has no reference fields beyond
// strings, which are immutable, so a plain struct copy suffices.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks cross-field and range constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FilePrefix) == "" {
		return fmtErrorf("file_prefix cannot be empty")
	}
	if c.MaxFileBytes <= 0 {
		return fmtErrorf("max_file_bytes must be positive: %d", c.MaxFileBytes)
	}
	if c.MaxFiles <= 0 {
		return fmtErrorf("max_files must be positive: %d", c.MaxFiles)
	}
	if c.RingCapacity <= 0 {
		return fmtErrorf("ring_capacity must be positive: %d", c.RingCapacity)
	}
	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: %q (use stdout or stderr)", c.ConsoleTarget)
	}
	if c.MinLevel < LevelTrace || c.MinLevel > LevelStep {
		return fmtErrorf("invalid min_level: %d", c.MinLevel)
	}
	if c.RetentionWorkers <= 0 {
		return fmtErrorf("retention_workers must be positive: %d", c.RetentionWorkers)
	}
	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}
	if c.MaxTotalSizeMB < 0 {
		return fmtErrorf("max_total_size_mb cannot be negative")
	}
	if c.MinDiskFreeMB < 0 {
		return fmtErrorf("min_disk_free_mb cannot be negative")
	}
	return nil
}

// NewConfigFromFile loads a TOML configuration using
// github.com/lixenwraith/config: register the struct against a key
// prefix, load the file (a missing file is not an error — defaults
// apply), then pull known keys back out into a fresh Config.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := lxconfig.New()
	if err := loader.RegisterStruct("ringlog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, lxconfig.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}
	if err := extractTOMLConfig(loader, "ringlog.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func extractTOMLConfig(loader *lxconfig.Config, prefix string, cfg *Config) error {
	overrides := map[string]any{}
	for _, key := range []string{
		"log_dir", "file_prefix", "max_file_bytes", "max_files", "console_output",
		"file_output", "use_colors", "show_timestamp", "show_thread_id",
		"show_source_location", "show_module_name", "show_full_path",
		"ring_capacity", "compress_rotated", "retention_workers",
		"internal_diag_path", "console_target", "timestamp_format", "max_total_size_mb",
		"min_disk_free_mb",
	} {
		if val, found := loader.Get(prefix + key); found {
			overrides[key] = val
		}
	}
	return applyOverridesMapstructure(cfg, overrides)
}

// NewConfigFromYAML loads configuration from a YAML file using
// gopkg.in/yaml.v3, for deployments that standardize on YAML elsewhere in
// their stack.
func NewConfigFromYAML(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmtErrorf("failed to read yaml config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmtErrorf("failed to parse yaml config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromOverrides builds a Config from defaults plus a generic map
// of overrides, decoded with github.com/mitchellh/mapstructure.
func NewConfigFromOverrides(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()
	if err := applyOverridesMapstructure(cfg, overrides); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverridesMapstructure(cfg *Config, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "toml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmtErrorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(overrides); err != nil {
		return fmtErrorf("failed to apply config overrides: %w", err)
	}
	return nil
}

// configRequiresFileReopen reports whether switching from old to next
// needs the file sink to close and reopen; Logger.Configure acts on this
// before it returns.
func configRequiresFileReopen(old, next *Config) bool {
	return old.FileOutput != next.FileOutput ||
		old.LogDir != next.LogDir ||
		old.FilePrefix != next.FilePrefix
}
