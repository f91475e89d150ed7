package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automem-labs/automem-go/pkg/storage"
	"github.com/automem-labs/automem-go/pkg/storage/sqlite"
)

func newTestClient(t *testing.T) *sqlite.Client {
	t.Helper()
	client, err := sqlite.NewClient(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "memories.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAddAndGetMemories(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	memories := []storage.Memory{
		{ID: "1", UserID: "u1", Content: "I prefer dark mode", CreatedAt: "2026-08-25T10:00:00Z", UpdatedAt: "2026-08-25T10:00:00Z"},
		{ID: "2", UserID: "u1", Content: "My favorite color is blue", CreatedAt: "2026-08-27T10:00:00Z", UpdatedAt: "2026-08-27T10:00:00Z"},
		{ID: "3", UserID: "u2", Content: "Other user's memory", CreatedAt: "2026-08-26T10:00:00Z", UpdatedAt: "2026-08-26T10:00:00Z"},
	}
	for _, m := range memories {
		require.NoError(t, client.AddMemory(ctx, m))
	}

	got, err := client.GetMemories(ctx, "u1", storage.OrderCreatedAtDesc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID, "newest memory first")
	assert.Equal(t, "1", got[1].ID)
}

func TestGetMemoriesUnknownOrderFallsBack(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.AddMemory(ctx, storage.Memory{
		ID: "1", UserID: "u1", Content: "a", CreatedAt: "2026-08-25T10:00:00Z", UpdatedAt: "2026-08-25T10:00:00Z",
	}))
	require.NoError(t, client.AddMemory(ctx, storage.Memory{
		ID: "2", UserID: "u1", Content: "b", CreatedAt: "2026-08-27T10:00:00Z", UpdatedAt: "2026-08-27T10:00:00Z",
	}))

	// A malicious or unknown criterion must degrade to created_at DESC.
	got, err := client.GetMemories(ctx, "u1", "content; DROP TABLE memories")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
}

func TestCountAndDeleteMemories(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, client.AddMemory(ctx, storage.Memory{
			ID: id, UserID: "u1", Content: "memory " + id,
			CreatedAt: "2026-08-25T10:00:00Z", UpdatedAt: "2026-08-25T10:00:00Z",
		}))
	}

	count, err := client.CountMemories(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	deleted, err := client.DeleteMemories(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	count, err = client.CountMemories(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetMemoriesEmptyResult(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	got, err := client.GetMemories(ctx, "nobody", storage.OrderCreatedAtDesc)
	require.NoError(t, err)
	assert.Empty(t, got)
}
