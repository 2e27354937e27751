package cache

import (
	"fmt"
	"os"
	"path/filepath"

	gap "github.com/muesli/go-app-paths"
)

// AppName names the per-user directories the default locator uses.
const AppName = "transformcache"

// RootLocator finds the base directory FileResolver creates its run
// directory in.
type RootLocator interface {
	CacheRoot() (string, error)
}

// LocatorFunc adapts a function to RootLocator.
type LocatorFunc func() (string, error)

// CacheRoot implements RootLocator.
func (f LocatorFunc) CacheRoot() (string, error) {
	return f()
}

// StaticLocator always returns dir.
func StaticLocator(dir string) RootLocator {
	return LocatorFunc(func() (string, error) {
		if dir == "" {
			return "", fmt.Errorf("empty cache root")
		}
		return dir, nil
	})
}

// DefaultLocator returns the per-user cache directory of the platform
// (for example $XDG_CACHE_HOME/transformcache on Linux), falling back to the
// system temporary directory when it cannot be determined.
func DefaultLocator() RootLocator {
	return LocatorFunc(func() (string, error) {
		scope := gap.NewScope(gap.User, AppName)
		dir, err := scope.CacheDir()
		if err != nil || dir == "" {
			return filepath.Join(os.TempDir(), AppName), nil
		}
		return dir, nil
	})
}
