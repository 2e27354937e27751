// Package main provides the transformcache command, which runs an external
// transformation engine over artifacts and caches each result for the rest
// of the run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmgilman/go/transformcache/atexit"
	"github.com/jmgilman/go/transformcache/cache"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""
)

const configName = "transformcache"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		code = 1
	}

	stop()
	atexit.Exit(code)
}

// flagKeys maps persistent flags to configuration keys. The keys match the
// YAML tags of cache.Config so a written config file reads back unchanged.
var flagKeys = map[string]string{
	"mode":              "mode",
	"dir":               "dir",
	"ext":               "extension",
	"compress":          "compression",
	"compression-level": "compression_level",
	"cleanup-on-exit":   "cleanup_on_exit",
	"singleflight":      "singleflight",
	"log-level":         "log_level",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:           "transformcache",
		Short:         "Run a transformation engine over artifacts, caching each output for the run",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return readConfigFile(v, configFile)
		},
	}

	defaults := cache.DefaultConfig()
	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: transformcache.yaml in the user config directory)")
	flags.String("mode", string(defaults.Mode), "cache mode: MEMORY or FILE")
	flags.String("dir", "", "base directory for FILE mode (default: the user cache directory)")
	flags.String("ext", defaults.Extension, "extension of cache entry files")
	flags.Bool("compress", defaults.Compression, "store FILE mode entries zstd-compressed")
	flags.Int("compression-level", defaults.CompressionLevel, "zstd compression level (1-22)")
	flags.Bool("cleanup-on-exit", defaults.CleanupOnExit, "remove the FILE mode run directory on exit")
	flags.Bool("singleflight", defaults.Singleflight, "compute concurrent misses for one artifact once")
	flags.String("log-level", defaults.LogLevel.String(), "log level: debug, info, warn or error")

	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	v.SetEnvPrefix(configName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newRunCmd(v), newConfigCmd(v), newVersionCmd())
	return root
}

// readConfigFile loads path, or transformcache.yaml from the user config
// directories when path is empty. A missing default file is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	dirs, err := gap.NewScope(gap.User, configName).ConfigDirs()
	if err != nil {
		return nil
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, configName)}, dirs...)
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version := Version
			if version == "" {
				version = "dev"
			}
			if CommitSHA != "" {
				version += " (" + CommitSHA + ")"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transformcache %s\n", version)
		},
	}
}
