package cache

import (
	"strings"

	"github.com/go-git/go-billy/v5"
)

// DefaultExtension is the file extension FileResolver gives cache entries.
const DefaultExtension = "class"

// Option configures a resolver. Options that only apply to FileResolver are
// ignored by MemoryResolver.
type Option func(*options)

type options struct {
	fs               billy.Filesystem
	extension        string
	compression      bool
	compressionLevel int
	cleanupOnExit    bool
	logger           *Logger
	metrics          *Metrics
}

func defaultOptions() options {
	return options{
		extension:     DefaultExtension,
		cleanupOnExit: true,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = NewNopLogger()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}
	return o
}

// WithFilesystem sets the filesystem FileResolver stores entries in.
// Defaults to the host filesystem.
//
// Example:
//
//	r, _ := cache.NewFileResolver("/cache", cache.WithFilesystem(memfs.New()))
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithExtension sets the extension appended to entry file names. A leading
// dot is ignored.
//
// An empty extension writes bare names, so an artifact that is also the
// parent of another ("pkg" and "pkg.Type") cannot be stored alongside it:
// whichever is written second fails and is recomputed on every call.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = strings.TrimPrefix(ext, ".")
	}
}

// WithCompression stores entries zstd-compressed at the given level
// (1 fastest, 22 smallest). Entries are uncompressed by default.
func WithCompression(level int) Option {
	return func(o *options) {
		o.compression = true
		o.compressionLevel = level
	}
}

// WithCleanupOnExit controls whether the run directory is removed when the
// process exits through atexit. Enabled by default.
func WithCleanupOnExit(enabled bool) Option {
	return func(o *options) {
		o.cleanupOnExit = enabled
	}
}

// WithLogger sets the logger used to report absorbed failures.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics sink. Share one Metrics between a resolver and
// its Decorator to get a combined view.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}
