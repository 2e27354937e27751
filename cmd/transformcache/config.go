package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/transformcache/cache"
)

// loadConfig assembles the cache configuration from flags, environment and
// config file, in that order of precedence.
func loadConfig(v *viper.Viper) (cache.Config, error) {
	cfg := cache.DefaultConfig()

	mode, err := cache.ParseMode(v.GetString("mode"))
	if err != nil {
		return cfg, err
	}
	level, err := cache.ParseLogLevel(v.GetString("log_level"))
	if err != nil {
		return cfg, err
	}

	cfg.Mode = mode
	cfg.BaseDir = v.GetString("dir")
	cfg.Extension = v.GetString("extension")
	cfg.Compression = v.GetBool("compression")
	cfg.CompressionLevel = v.GetInt("compression_level")
	cfg.CleanupOnExit = v.GetBool("cleanup_on_exit")
	cfg.Singleflight = v.GetBool("singleflight")
	cfg.LogLevel = level

	cfg.SetDefaults()
	return cfg, cfg.Validate()
}

// newLogger returns a cache logger rendering through charmbracelet/log.
func newLogger(w io.Writer, level cache.LogLevel) *cache.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "transformcache",
		Level:           charmLevel(level),
	})
	return cache.FromSlog(slog.New(handler), level)
}

func charmLevel(level cache.LogLevel) log.Level {
	switch level {
	case cache.LogLevelDebug:
		return log.DebugLevel
	case cache.LogLevelWarn:
		return log.WarnLevel
	case cache.LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}

			if !write {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path, err := gap.NewScope(gap.User, configName).ConfigPath(configName + ".yaml")
			if err != nil {
				return fmt.Errorf("failed to locate config directory: %w", err)
			}
			fs := osfs.New("/")
			if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := util.WriteFile(fs, path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "write the configuration to the default config file")
	return cmd
}
