package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// RootScopeID identifies artifacts loaded without an isolation scope.
// It has the same width as derived scope IDs.
const RootScopeID = "0000000000000000"

// Scope is an isolation context artifacts are loaded in, such as a
// class-loading boundary. Artifacts with the same name in different scopes
// are cached independently.
type Scope interface {
	// ScopeIdentity returns a token that is stable for the life of the scope.
	ScopeIdentity() string
}

// StringScope is a Scope identified by a plain string.
type StringScope string

// ScopeIdentity implements Scope.
func (s StringScope) ScopeIdentity() string {
	return string(s)
}

// ScopeID derives the hex scope identifier for scope. A nil scope maps to
// RootScopeID.
func ScopeID(scope Scope) string {
	if scope == nil {
		return RootScopeID
	}
	sum := sha256.Sum256([]byte(scope.ScopeIdentity()))
	return hex.EncodeToString(sum[:8])
}

// Key addresses one cache entry.
type Key struct {
	// ScopeID is the hex identifier of the artifact's scope.
	ScopeID string
	// Name is the hierarchical artifact name, with segments separated by
	// dots ("com.example.Foo") or slashes ("com/example/Foo").
	Name string
}

// NewKey builds the key for name loaded in scope.
func NewKey(scope Scope, name string) Key {
	return Key{ScopeID: ScopeID(scope), Name: name}
}

// String returns the composite form "<scopeID>@<name>".
func (k Key) String() string {
	return k.ScopeID + "@" + k.Name
}

// Segments splits the name into its hierarchy, treating both '.' and '/'
// as separators.
func (k Key) Segments() []string {
	return strings.FieldsFunc(k.Name, isNameSeparator)
}

func isNameSeparator(r rune) bool {
	return r == '.' || r == '/'
}

// Path returns the slash-separated path of the entry relative to a cache
// root: the scope ID, then one directory per name segment, with ext appended
// to the last segment.
//
// Example:
//
//	cache.Key{ScopeID: "A1B2", Name: "pkg.Type"}.Path("class") // "A1B2/pkg/Type.class"
//	cache.Key{ScopeID: "A1B2", Name: "pkg/Type"}.Path("class") // "A1B2/pkg/Type.class"
func (k Key) Path(ext string) string {
	p := k.ScopeID + "/" + strings.Join(k.Segments(), "/")
	if ext != "" {
		p += "." + ext
	}
	return p
}

// Validate reports whether the key has both a scope ID and a name.
func (k Key) Validate() error {
	switch {
	case k.ScopeID == "":
		return fmt.Errorf("%w: empty scope id", ErrInvalidKey)
	case k.Name == "":
		return fmt.Errorf("%w: empty artifact name", ErrInvalidKey)
	}
	return nil
}

// ValidatePath reports whether the key can be stored as a file: on top of
// Validate, the scope ID must be a single path element and every name
// segment must be non-empty, so the entry cannot escape its scope
// directory.
func (k Key) ValidatePath() error {
	if err := k.Validate(); err != nil {
		return err
	}

	switch {
	case k.ScopeID == "." || k.ScopeID == "..":
		return fmt.Errorf("%w: scope id %q", ErrInvalidKey, k.ScopeID)
	case strings.ContainsAny(k.ScopeID, "/\\\x00"):
		return fmt.Errorf("%w: scope id %q contains a path separator", ErrInvalidKey, k.ScopeID)
	case strings.ContainsAny(k.Name, "\\\x00"):
		return fmt.Errorf("%w: artifact name %q contains a backslash or NUL", ErrInvalidKey, k.Name)
	}

	// FieldsFunc drops empty fields, so compare against a plain split.
	if len(k.Segments()) != strings.Count(k.Name, ".")+strings.Count(k.Name, "/")+1 {
		return fmt.Errorf("%w: artifact name %q has an empty segment", ErrInvalidKey, k.Name)
	}
	return nil
}
