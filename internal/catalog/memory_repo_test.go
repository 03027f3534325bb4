package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_InsertRejectsDuplicates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := validBook()
	require.NoError(t, repo.Insert(ctx, b))
	assert.ErrorIs(t, repo.Insert(ctx, b), ErrDuplicateISBN)
}

func TestMemoryRepository_SaveOverwritesInPlace(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := validBook()
	second := validBook()
	second.ISBN = "1231231231231"
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	first.Title = "Overwritten"
	require.NoError(t, repo.Save(ctx, first))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Overwriting does not move the record to the end of storage order.
	assert.Equal(t, "Overwritten", all[0].Title)
	assert.Equal(t, second.ISBN, all[1].ISBN)
}

func TestMemoryRepository_SaveInsertsWhenAbsent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, validBook()))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryRepository_DeleteRemovesFromOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := validBook()
	second := validBook()
	second.ISBN = "1231231231231"
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	require.NoError(t, repo.Delete(ctx, first.ISBN))
	assert.ErrorIs(t, repo.Delete(ctx, first.ISBN), ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second.ISBN, all[0].ISBN)
}

func TestMemoryRepository_ExistsDoesNotError(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "9781234567890")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Insert(ctx, validBook()))

	ok, err = repo.Exists(ctx, "9781234567890")
	require.NoError(t, err)
	assert.True(t, ok)
}
