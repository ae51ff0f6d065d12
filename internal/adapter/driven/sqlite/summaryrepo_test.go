package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSummaryRepo(db)
	ctx := context.Background()

	err := repo.Set(ctx, "docs/guide.md|abc123", "Rewrote the install section.")
	require.NoError(t, err)

	body, err := repo.Get(ctx, "docs/guide.md|abc123")
	require.NoError(t, err)
	assert.Equal(t, "Rewrote the install section.", body)
}

func TestSummaryRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSummaryRepo(db)
	ctx := context.Background()

	body, err := repo.Get(ctx, "docs/missing.md|deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "", body)
}

func TestSummaryRepo_SetOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSummaryRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "docs/a.md|c1", "old summary"))
	require.NoError(t, repo.Set(ctx, "docs/a.md|c1", "new summary"))

	body, err := repo.Get(ctx, "docs/a.md|c1")
	require.NoError(t, err)
	assert.Equal(t, "new summary", body)
}

func TestSummaryRepo_Clear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSummaryRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "docs/a.md|c1", "one"))
	require.NoError(t, repo.Set(ctx, "docs/b.md|c2", "two"))

	require.NoError(t, repo.Clear(ctx))

	body, err := repo.Get(ctx, "docs/a.md|c1")
	require.NoError(t, err)
	assert.Empty(t, body)

	body, err = repo.Get(ctx, "docs/b.md|c2")
	require.NoError(t, err)
	assert.Empty(t, body)
}
