package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryResolver_MissThenHit(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: "com.example.Foo"}

	_, ok := r.Get(ctx, key)
	require.False(t, ok)

	r.Put(ctx, key, []byte{1, 2, 3})

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 1, r.Len())

	snap := r.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, int64(1), snap.Stores)
}

func TestMemoryResolver_Idempotent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: "com.example.Foo"}
	r.Put(ctx, key, []byte("bytes"))

	first, ok := r.Get(ctx, key)
	require.True(t, ok)
	second, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestMemoryResolver_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: "com.example.Foo"}

	r.Put(ctx, key, []byte{1})
	r.Put(ctx, key, []byte{2})

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte{2}, got)
	assert.Equal(t, 1, r.Len())
}

func TestMemoryResolver_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()

	r.Put(ctx, Key{ScopeID: "aaaa", Name: "pkg.Type"}, []byte("a"))
	r.Put(ctx, Key{ScopeID: "bbbb", Name: "pkg.Type"}, []byte("b"))

	got, ok := r.Get(ctx, Key{ScopeID: "aaaa", Name: "pkg.Type"})
	require.True(t, ok)
	assert.Equal(t, []byte("a"), got)

	got, ok = r.Get(ctx, Key{ScopeID: "bbbb", Name: "pkg.Type"})
	require.True(t, ok)
	assert.Equal(t, []byte("b"), got)
}

func TestMemoryResolver_CopiesBytes(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: "com.example.Foo"}

	data := []byte{1, 2, 3}
	r.Put(ctx, key, data)
	data[0] = 42

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	got[1] = 42
	again, _ := r.Get(ctx, key)
	assert.Equal(t, []byte{1, 2, 3}, again)
}

func TestMemoryResolver_EmptyEntry(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: "Empty"}

	r.Put(ctx, key, nil)

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestMemoryResolver_SlashSeparatedName(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: "com/example/Foo"}

	_, ok := r.Get(ctx, key)
	require.False(t, ok)

	r.Put(ctx, key, []byte{1, 2, 3})

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	snap := r.Metrics().Snapshot()
	assert.Zero(t, snap.ReadErrors)
	assert.Zero(t, snap.WriteErrors)
}

func TestMemoryResolver_NoPathRules(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000", Name: `odd\name..with/../parts`}

	r.Put(ctx, key, []byte{7})

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte{7}, got)
}

func TestMemoryResolver_InvalidKey(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()
	key := Key{ScopeID: "00000000"}

	r.Put(ctx, key, []byte{1})
	_, ok := r.Get(ctx, key)

	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	snap := r.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.WriteErrors)
	assert.Equal(t, int64(1), snap.ReadErrors)
}

func TestMemoryResolver_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResolver()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key{ScopeID: "00000000", Name: fmt.Sprintf("pkg.Type%d", i%8)}
			r.Put(ctx, key, []byte{byte(i % 8)})
			got, ok := r.Get(ctx, key)
			assert.True(t, ok)
			assert.Equal(t, []byte{byte(i % 8)}, got)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, r.Len())
}
