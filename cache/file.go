package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"

	"github.com/jmgilman/go/transformcache/atexit"
	platformerrors "github.com/jmgilman/go/transformcache/errors"
)

// RunDirPrefix prefixes the per-run directory FileResolver creates under its
// base directory.
const RunDirPrefix = "class-cache-"

const dirPerm = 0o755

// FileResolver keeps entries as files under a directory unique to the
// current run:
//
//	<base>/class-cache-<random>/<scopeID>/<name segments>.<ext>
//
// The directory is removed by Close, and on process exit when cleanup on exit
// is enabled. Writes go to a temporary file that is renamed into place, so
// readers see either the previous entry or the complete new one.
type FileResolver struct {
	fs      billy.Filesystem
	root    string
	ext     string
	codec   codec
	logger  *Logger
	metrics *Metrics

	// mu is held for reading by Get and Put and for writing by Close.
	mu       sync.RWMutex
	closed   bool
	closeErr error
	exitHook atexit.Handle
}

// NewFileResolver creates a run directory under baseDir and returns a
// resolver storing entries in it. A leading "~" in baseDir is expanded to the
// user's home directory; baseDir is created if it does not exist.
//
// The resolver is unusable if the run directory cannot be created, so that
// failure is returned instead of being absorbed like later I/O errors.
//
// Example:
//
//	r, err := cache.NewFileResolver(os.TempDir())
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
func NewFileResolver(baseDir string, opts ...Option) (*FileResolver, error) {
	o := applyOptions(opts)
	logger := o.logger.With("resolver", "file")

	if strings.TrimSpace(baseDir) == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidConfig, "cache base directory is empty")
	}

	base, err := homedir.Expand(baseDir)
	if err != nil {
		return nil, platformerrors.WrapWithContext(err, platformerrors.CodeInvalidConfig,
			"failed to expand cache base directory", map[string]interface{}{"dir": baseDir})
	}

	fsys := o.fs
	if fsys == nil {
		if base, err = filepath.Abs(base); err != nil {
			return nil, platformerrors.WrapWithContext(err, platformerrors.CodeInvalidConfig,
				"failed to resolve cache base directory", map[string]interface{}{"dir": baseDir})
		}
		fsys = osfs.New("/")
	}

	if err := fsys.MkdirAll(base, dirPerm); err != nil {
		return nil, platformerrors.WrapWithContext(err, platformerrors.CodeUnavailable,
			"failed to create cache base directory", map[string]interface{}{"dir": base})
	}

	root, err := createRunDir(fsys, base)
	if err != nil {
		return nil, platformerrors.WrapWithContext(err, platformerrors.CodeUnavailable,
			"failed to create cache run directory", map[string]interface{}{"dir": base})
	}

	var c codec = rawCodec{}
	if o.compression {
		zc, err := newZstdCodec(o.compressionLevel)
		if err != nil {
			_ = util.RemoveAll(fsys, root)
			return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to initialize compression")
		}
		c = zc
	}

	r := &FileResolver{
		fs:      fsys,
		root:    root,
		ext:     o.extension,
		codec:   c,
		logger:  logger.With("root", root),
		metrics: o.metrics,
	}

	if o.cleanupOnExit {
		r.exitHook = atexit.Register("transformcache "+root, r.Close)
	}

	r.logger.WithOperation(OpInit).Debug(context.Background(), "file cache initialized",
		"compression", o.compression,
		"cleanup_on_exit", o.cleanupOnExit)
	return r, nil
}

// createRunDir creates a fresh, uniquely named directory under base.
func createRunDir(fsys billy.Filesystem, base string) (string, error) {
	const attempts = 5

	for i := 0; i < attempts; i++ {
		root := fsys.Join(base, RunDirPrefix+uuid.NewString())
		if _, err := fsys.Stat(root); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		if err := fsys.MkdirAll(root, dirPerm); err != nil {
			return "", err
		}
		return root, nil
	}
	return "", fmt.Errorf("no unused directory name after %d attempts", attempts)
}

// Root returns the run directory.
func (r *FileResolver) Root() string {
	return r.root
}

// Filesystem returns the filesystem entries are stored in.
func (r *FileResolver) Filesystem() billy.Filesystem {
	return r.fs
}

// Path returns the location of the entry for key, or an error wrapping
// ErrInvalidKey.
func (r *FileResolver) Path(key Key) (string, error) {
	if err := key.ValidatePath(); err != nil {
		return "", err
	}

	elems := append([]string{r.root}, strings.Split(key.Path(r.ext), "/")...)
	return r.fs.Join(elems...), nil
}

// Metrics returns the metrics the resolver records into.
func (r *FileResolver) Metrics() *Metrics {
	return r.metrics
}

// Get implements Resolver. A missing file is a miss; any other failure is
// logged and reported as a miss too.
func (r *FileResolver) Get(ctx context.Context, key Key) ([]byte, bool) {
	data, err := r.read(key)
	switch {
	case err == nil:
		LogCacheHit(ctx, r.logger, key, len(data))
		r.metrics.RecordHit(len(data))
		return data, true
	case errors.Is(err, fs.ErrNotExist):
		LogCacheMiss(ctx, r.logger, key, "not found")
	default:
		LogCacheError(ctx, r.logger, OpGet, key, err)
		r.metrics.RecordReadError()
	}
	r.metrics.RecordMiss()
	return nil, false
}

func (r *FileResolver) read(key Key) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}

	path, err := r.Path(key)
	if err != nil {
		return nil, err
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open entry: %w", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}

	return r.codec.decode(raw)
}

// Put implements Resolver. Failures are logged and the entry is dropped.
func (r *FileResolver) Put(ctx context.Context, key Key, data []byte) {
	if err := r.write(key, data); err != nil {
		LogCacheError(ctx, r.logger, OpPut, key, err)
		r.metrics.RecordWriteError()
		return
	}
	r.metrics.RecordPut(len(data))
}

func (r *FileResolver) write(key Key, data []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrClosed
	}

	path, err := r.Path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := r.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create entry directory: %w", err)
	}

	tmp, err := r.fs.TempFile(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(r.codec.encode(data)); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("failed to write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("failed to close entry: %w", err)
	}

	if err := r.fs.Rename(tmpName, path); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("failed to move entry into place: %w", err)
	}
	return nil
}

// Close removes the run directory and releases the resolver. Later calls
// return the result of the first. Get and Put after Close are misses and
// dropped writes.
func (r *FileResolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.closeErr
	}
	r.closed = true
	r.exitHook.Unregister()
	r.codec.close()

	logger := r.logger.WithOperation(OpCleanup)
	if err := util.RemoveAll(r.fs, r.root); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.closeErr = platformerrors.WrapWithContext(err, platformerrors.CodeStorage,
			"failed to remove cache run directory", map[string]interface{}{"dir": r.root})
		logger.Warn(context.Background(), "cache cleanup failed", "error", r.closeErr.Error())
		return r.closeErr
	}

	logger.Debug(context.Background(), "cache run directory removed")
	return nil
}
