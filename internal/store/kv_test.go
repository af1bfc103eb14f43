package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_GetMiss(t *testing.T) {
	kv := NewMemoryKV(8, time.Minute)

	_, err := kv.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_SetGet(t *testing.T) {
	kv := NewMemoryKV(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemoryKV_TTLExpiry(t *testing.T) {
	kv := NewMemoryKV(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", 30*time.Millisecond))
	_, err := kv.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_Delete(t *testing.T) {
	kv := NewMemoryKV(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_EvictsLeastRecentlyUsed(t *testing.T) {
	kv := NewMemoryKV(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "a", "1", 0))
	require.NoError(t, kv.Set(ctx, "b", "2", 0))
	require.NoError(t, kv.Set(ctx, "c", "3", 0))

	_, err := kv.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)

	got, err := kv.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}
