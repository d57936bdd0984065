package repository

import (
	"context"
	"testing"

	"pos-inventory/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	resetTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	description := "Hot and cold drinks"
	category := &domain.Category{Name: "Drinks", Description: &description}
	require.NoError(t, repo.Create(ctx, category))
	assert.NotZero(t, category.ID)
	assert.False(t, category.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", found.Name)
	require.NotNil(t, found.Description)
	assert.Equal(t, description, *found.Description)

	found.Name = "Beverages"
	found.Description = nil
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", updated.Name)
	assert.Nil(t, updated.Description)

	seedCategory(t, "Snacks")
	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Beverages", categories[0].Name)
	assert.Equal(t, "Snacks", categories[1].Name)

	require.NoError(t, repo.Delete(ctx, category.ID))
	_, err = repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryRepository_NotFound(t *testing.T) {
	resetTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, &domain.Category{ID: 999, Name: "x"}), ErrCategoryNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), ErrCategoryNotFound)

	exists, err := repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryRepository_DeleteReferencedByTrashedProduct(t *testing.T) {
	resetTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := seedCategory(t, "Tours")
	product := seedProduct(t, category.ID, "City Tour")
	_, err := NewProductRepository(testDB).SoftDelete(ctx, product.ID)
	require.NoError(t, err)

	err = repo.Delete(ctx, category.ID)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	exists, err := repo.Exists(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
