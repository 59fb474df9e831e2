package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackle/backend/internal/domain/shared"
)

func TestLocalFileStorage_RoundTrip(t *testing.T) {
	store, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "reports/q3.pdf"
	path, err := store.Save(ctx, key, strings.NewReader("report body"))
	require.NoError(t, err)
	assert.Equal(t, key, path)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := store.Open(ctx, key)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "report body", string(content))

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalFileStorage_DeleteMissingIsNoError(t *testing.T) {
	store, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never-stored.txt"))
}

func TestLocalFileStorage_OpenMissing(t *testing.T) {
	store, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "never-stored.txt")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLocalFileStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, "../outside.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = store.Open(ctx, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
