package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/transformcache/cache"
	platformerrors "github.com/jmgilman/go/transformcache/errors"
	"github.com/jmgilman/go/transformcache/transform"
)

type runOptions struct {
	inputs   []string
	inputDir string
	outDir   string
	repeat   int
	scope    string
	jobs     int
}

// artifact is one input file and the dotted name it is cached under.
type artifact struct {
	name string
	path string
	ext  string
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	opts := runOptions{repeat: 2, jobs: 1}

	cmd := &cobra.Command{
		Use:   "run [flags] -- ENGINE [ARGS...]",
		Short: "Transform artifacts with an external engine through the cache",
		Long: `Run ENGINE once per artifact, feeding the artifact on stdin and reading the
transformed bytes from stdout. Each artifact is transformed --repeat times;
every repetition after the first is served from the cache.

The engine sees TRANSFORMCACHE_SCOPE and TRANSFORMCACHE_ARTIFACT in its
environment. Empty output leaves the artifact unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return runEngine(cmd.Context(), osfs.New("/"), cfg, logger, opts, args, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.inputs, "input", "i", nil, "artifact file (repeatable)")
	flags.StringVar(&opts.inputDir, "input-dir", "", "directory of artifacts; names derive from relative paths")
	flags.StringVarP(&opts.outDir, "out", "o", "", "directory to write transformed artifacts to")
	flags.IntVar(&opts.repeat, "repeat", opts.repeat, "transformations per artifact")
	flags.StringVar(&opts.scope, "scope", "", "isolation scope identity (default: root scope)")
	flags.IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "artifacts transformed in parallel")
	return cmd
}

func runEngine(
	ctx context.Context,
	fsys billy.Filesystem,
	cfg cache.Config,
	logger *cache.Logger,
	opts runOptions,
	engineArgs []string,
	out io.Writer,
) error {
	if opts.repeat < 1 {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "--repeat must be at least 1, got %d", opts.repeat)
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	artifacts, err := collectArtifacts(fsys, opts.inputs, opts.inputDir)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		return platformerrors.New(platformerrors.CodeInvalidInput, "no artifacts given; use --input or --input-dir")
	}

	metrics := cache.NewMetrics()
	decorator, err := cache.New(cfg, cache.WithLogger(logger), cache.WithMetrics(metrics))
	if err != nil {
		logger.Error(ctx, "cache initialization failed", "mode", string(cfg.Mode), "error", err.Error())
		return err
	}
	if fr, ok := decorator.Resolver().(*cache.FileResolver); ok {
		logger.Info(ctx, "file cache ready", "root", fr.Root(), "cleanup_on_exit", cfg.CleanupOnExit)
	}

	engine, err := transform.NewCommand(engineArgs, transform.WithLogger(logger))
	if err != nil {
		return err
	}
	t := decorator.Decorate(engine)

	var scope cache.Scope
	if opts.scope != "" {
		scope = cache.StringScope(opts.scope)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for _, a := range artifacts {
		g.Go(func() error {
			return processArtifact(gctx, fsys, t, scope, a, opts)
		})
	}
	err = g.Wait()

	snapshot := metrics.Snapshot()
	cache.LogPerformanceMetrics(ctx, logger, snapshot)
	printSummary(out, len(artifacts), snapshot)
	return err
}

func processArtifact(
	ctx context.Context,
	fsys billy.Filesystem,
	t cache.Transformer,
	scope cache.Scope,
	a artifact,
	opts runOptions,
) error {
	input, err := util.ReadFile(fsys, a.path)
	if err != nil {
		return platformerrors.WrapWithContext(err, platformerrors.CodeInvalidInput,
			"failed to read artifact", map[string]interface{}{"path": a.path})
	}

	var first []byte
	for i := 0; i < opts.repeat; i++ {
		output, ok, err := t.Transform(ctx, scope, a.name, input)
		if err != nil {
			return err
		}
		if !ok {
			output = input
		}

		if i == 0 {
			first = output
		} else if !bytes.Equal(first, output) {
			return platformerrors.Newf(platformerrors.CodeInternal,
				"artifact %s changed between transformations", a.name)
		}
	}

	if opts.outDir == "" {
		return nil
	}

	dest := fsys.Join(opts.outDir, filepath.FromSlash(strings.ReplaceAll(a.name, ".", "/"))+a.ext)
	if err := fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to create output directory")
	}
	if err := util.WriteFile(fsys, dest, first, 0o644); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to write output")
	}
	return nil
}

// collectArtifacts resolves the input files to artifacts sorted by name.
func collectArtifacts(fsys billy.Filesystem, inputs []string, inputDir string) ([]artifact, error) {
	var artifacts []artifact
	seen := map[string]string{}

	add := func(rel, path string) error {
		name, ext := artifactName(rel)
		if name == "" {
			return nil
		}
		if prev, ok := seen[name]; ok {
			return platformerrors.Newf(platformerrors.CodeInvalidInput,
				"artifact %s maps to both %s and %s", name, prev, path)
		}
		seen[name] = path
		artifacts = append(artifacts, artifact{name: name, path: path, ext: ext})
		return nil
	}

	for _, in := range inputs {
		path, err := absPath(in)
		if err != nil {
			return nil, err
		}
		if err := add(filepath.Base(path), path); err != nil {
			return nil, err
		}
	}

	if inputDir != "" {
		dir, err := absPath(inputDir)
		if err != nil {
			return nil, err
		}
		err = util.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			return add(rel, path)
		})
		if err != nil {
			return nil, platformerrors.WrapWithContext(err, platformerrors.CodeInvalidInput,
				"failed to scan input directory", map[string]interface{}{"dir": dir})
		}
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].name < artifacts[j].name })
	return artifacts, nil
}

// artifactName turns a relative file path into a dotted artifact name and
// the extension that was stripped from it.
//
//	artifactName("com/example/Foo.class") // "com.example.Foo", ".class"
func artifactName(rel string) (string, string) {
	ext := filepath.Ext(rel)
	trimmed := strings.TrimSuffix(filepath.ToSlash(rel), ext)
	return strings.ReplaceAll(trimmed, "/", "."), ext
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", platformerrors.WrapWithContext(err, platformerrors.CodeInvalidInput,
			"failed to resolve path", map[string]interface{}{"path": p})
	}
	return abs, nil
}

func printSummary(w io.Writer, artifacts int, s cache.MetricsSnapshot) {
	fmt.Fprintf(w, "artifacts:     %s\n", humanize.Comma(int64(artifacts)))
	fmt.Fprintf(w, "computations:  %s\n", humanize.Comma(s.Computations))
	fmt.Fprintf(w, "pass-throughs: %s\n", humanize.Comma(s.PassThroughs))
	fmt.Fprintf(w, "hits:          %s (%.1f%%)\n", humanize.Comma(s.Hits), s.HitRate*100)
	fmt.Fprintf(w, "misses:        %s\n", humanize.Comma(s.Misses))
	fmt.Fprintf(w, "stored:        %s in %s entries\n", humanize.Bytes(uint64(s.BytesStored)), humanize.Comma(s.Stores))
	fmt.Fprintf(w, "served:        %s\n", humanize.Bytes(uint64(s.BytesServed)))
	if errs := s.ReadErrors + s.WriteErrors; errs > 0 {
		fmt.Fprintf(w, "cache errors:  %s\n", humanize.Comma(errs))
	}
}
