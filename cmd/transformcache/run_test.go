package main

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactName(t *testing.T) {
	tests := []struct {
		rel      string
		wantName string
		wantExt  string
	}{
		{rel: "com/example/Foo.class", wantName: "com.example.Foo", wantExt: ".class"},
		{rel: "Main.class", wantName: "Main", wantExt: ".class"},
		{rel: "pkg/Type", wantName: "pkg.Type", wantExt: ""},
		{rel: "a/b/Outer$Inner.class", wantName: "a.b.Outer$Inner", wantExt: ".class"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			name, ext := artifactName(tt.rel)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestCollectArtifacts(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/in/pkg/Type.class", []byte("t"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/in/com/example/Foo.class", []byte("f"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/extra/Main.class", []byte("m"), 0o644))

	artifacts, err := collectArtifacts(fs, []string{"/extra/Main.class"}, "/in")
	require.NoError(t, err)

	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.name)
	}
	assert.Equal(t, []string{"Main", "com.example.Foo", "pkg.Type"}, names)
	assert.Equal(t, "/in/pkg/Type.class", artifacts[2].path)
	assert.Equal(t, ".class", artifacts[2].ext)
}

func TestCollectArtifacts_Duplicate(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/in/Main.class", []byte("a"), 0o644))

	_, err := collectArtifacts(fs, []string{"/other/Main.class"}, "/in")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact Main maps to both")
}
