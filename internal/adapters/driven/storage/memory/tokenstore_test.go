package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

func TestTokenStore_SetAndGet(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.AccessTokenKey, "at-1"))

	val, ok, err := store.Get(ctx, domain.AccessTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "at-1", val)
}

func TestTokenStore_Get_Missing(t *testing.T) {
	store := NewTokenStore()

	val, ok, err := store.Get(context.Background(), domain.RefreshTokenKey)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestTokenStore_Set_Replaces(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.AccessTokenKey, "at-1"))
	require.NoError(t, store.Set(ctx, domain.AccessTokenKey, "at-2"))

	val, _, err := store.Get(ctx, domain.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "at-2", val)
}

func TestTokenStore_Delete(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, domain.RefreshTokenKey, "rt-1"))

	require.NoError(t, store.Delete(ctx, domain.RefreshTokenKey))
	require.NoError(t, store.Delete(ctx, domain.RefreshTokenKey))

	_, ok, err := store.Get(ctx, domain.RefreshTokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStore_Concurrency(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(ctx, domain.AccessTokenKey, fmt.Sprintf("at-%d", n))
		}(i)
		go func() {
			defer wg.Done()
			_, _, _ = store.Get(ctx, domain.AccessTokenKey)
		}()
	}
	wg.Wait()

	_, ok, err := store.Get(ctx, domain.AccessTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
}
