package cache

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	platformerrors "github.com/jmgilman/go/transformcache/errors"
)

// EnvPrefix prefixes every environment variable ConfigFromEnv reads.
const EnvPrefix = "TRANSFORMCACHE_"

// Mode selects the backing store.
type Mode string

// Supported modes.
const (
	ModeMemory Mode = "MEMORY"
	ModeFile   Mode = "FILE"
)

// ParseMode parses a mode name, ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeMemory:
		return ModeMemory, nil
	case ModeFile:
		return ModeFile, nil
	default:
		return "", fmt.Errorf("%w: %q (want MEMORY or FILE)", ErrInvalidMode, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Config selects and tunes the resolver built by NewResolver.
type Config struct {
	// Mode selects the backing store. Defaults to MEMORY.
	Mode Mode `env:"MODE" envDefault:"MEMORY" yaml:"mode" mapstructure:"mode"`

	// BaseDir is where FILE mode creates its run directory. When empty the
	// RootLocator decides.
	BaseDir string `env:"DIR" yaml:"dir" mapstructure:"dir"`

	// Extension is appended to entry file names in FILE mode.
	Extension string `env:"EXTENSION" envDefault:"class" yaml:"extension" mapstructure:"extension"`

	// Compression stores FILE mode entries zstd-compressed.
	Compression bool `env:"COMPRESSION" yaml:"compression" mapstructure:"compression"`

	// CompressionLevel is the zstd level, 1 to 22.
	CompressionLevel int `env:"COMPRESSION_LEVEL" envDefault:"3" yaml:"compression_level" mapstructure:"compression_level"`

	// CleanupOnExit removes the FILE mode run directory at process exit.
	CleanupOnExit bool `env:"CLEANUP_ON_EXIT" envDefault:"true" yaml:"cleanup_on_exit" mapstructure:"cleanup_on_exit"`

	// Singleflight collapses concurrent misses for one key.
	Singleflight bool `env:"SINGLEFLIGHT" yaml:"singleflight" mapstructure:"singleflight"`

	// LogLevel is the minimum level of cache log records.
	LogLevel LogLevel `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeMemory,
		Extension:        DefaultExtension,
		CompressionLevel: 3,
		CleanupOnExit:    true,
		LogLevel:         LogLevelInfo,
	}
}

// ConfigFromEnv reads TRANSFORMCACHE_* variables on top of the defaults.
//
// Example:
//
//	TRANSFORMCACHE_MODE=file TRANSFORMCACHE_DIR=/var/cache/app ./app
func ConfigFromEnv() (Config, error) {
	return configFromEnv(nil)
}

func configFromEnv(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return Config{}, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to read cache configuration from environment")
	}
	return cfg, nil
}

// SetDefaults fills unset fields that have a non-zero default.
// CleanupOnExit is left alone because false is a meaningful setting; start
// from DefaultConfig to get it enabled.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeMemory
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.CompressionLevel == 0 {
		c.CompressionLevel = 3
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "invalid cache configuration")
	}
	if strings.TrimPrefix(c.Extension, ".") == "" {
		return platformerrors.New(platformerrors.CodeInvalidConfig, "extension is empty")
	}
	if strings.ContainsAny(c.Extension, "/\\") {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "extension %q contains a path separator", c.Extension)
	}
	if c.Compression && (c.CompressionLevel < 1 || c.CompressionLevel > 22) {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "compression level %d out of range 1-22", c.CompressionLevel)
	}
	return nil
}

// fileOptions translates the FILE mode settings into resolver options.
func (c Config) fileOptions() []Option {
	opts := []Option{
		WithExtension(c.Extension),
		WithCleanupOnExit(c.CleanupOnExit),
	}
	if c.Compression {
		opts = append(opts, WithCompression(c.CompressionLevel))
	}
	return opts
}

// NewResolver builds the resolver cfg selects. In FILE mode the base
// directory is cfg.BaseDir or, when empty, what locator returns; a nil
// locator means DefaultLocator. Options given here override cfg.
//
// A FILE mode resolver that cannot be initialized is an error; the caller
// decides whether to abort or fall back.
func NewResolver(cfg Config, locator RootLocator, opts ...Option) (Resolver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mode, _ := ParseMode(string(cfg.Mode))
	if mode == ModeMemory {
		return NewMemoryResolver(opts...), nil
	}

	base := cfg.BaseDir
	if base == "" {
		if locator == nil {
			locator = DefaultLocator()
		}
		dir, err := locator.CacheRoot()
		if err != nil {
			return nil, platformerrors.Wrap(err, platformerrors.CodeUnavailable, "failed to locate cache root")
		}
		base = dir
	}

	return NewFileResolver(base, append(cfg.fileOptions(), opts...)...)
}

// New builds a Decorator over the resolver cfg selects, using
// DefaultLocator for FILE mode. Logger and metrics options are shared with
// the decorator.
func New(cfg Config, opts ...Option) (*Decorator, error) {
	resolver, err := NewResolver(cfg, nil, opts...)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	dopts := []DecoratorOption{WithDecoratorLogger(o.logger)}
	if mp, ok := resolver.(metricsProvider); ok {
		dopts = append(dopts, WithDecoratorMetrics(mp.Metrics()))
	}
	if cfg.Singleflight {
		dopts = append(dopts, WithSingleflight())
	}
	return NewDecorator(resolver, dopts...), nil
}
