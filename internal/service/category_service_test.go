package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pos-inventory/internal/repository"
	"pos-inventory/internal/repository/repotest"
	"pos-inventory/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCategoryService() (CategoryService, *repotest.Store) {
	store := repotest.NewStore()
	return NewCategoryService(store.Categories(), validation.New(), zap.NewNop()), store
}

func TestCategoryService_CreateGetUpdateDelete(t *testing.T) {
	service, _ := newTestCategoryService()
	ctx := context.Background()

	created, err := service.Create(ctx, CategoryInput{Name: "Camping", Description: SetString(strPtr("Outdoor gear"))})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camping", found.Name)

	updated, err := service.Update(ctx, created.ID, CategoryInput{Name: "Camping Gear"})
	require.NoError(t, err)
	assert.Equal(t, "Camping Gear", updated.Name)
	require.NotNil(t, updated.Description, "an omitted description is kept")
	assert.Equal(t, "Outdoor gear", *updated.Description)

	cleared, err := service.Update(ctx, created.ID, CategoryInput{Name: "Camping Gear", Description: SetString(nil)})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, service.Delete(ctx, created.ID))
	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestCategoryService_Validation(t *testing.T) {
	service, _ := newTestCategoryService()
	ctx := context.Background()

	_, err := service.Create(ctx, CategoryInput{})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "The name field is required.", verr.Message)

	_, err = service.Create(ctx, CategoryInput{Name: strings.Repeat("x", 256)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "The name field must not be greater than 255 characters.", verr.Message)
}

func TestCategoryService_UpdateMissingIsNotFound(t *testing.T) {
	service, _ := newTestCategoryService()

	_, err := service.Update(context.Background(), 99, CategoryInput{})
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	service, store := newTestCategoryService()
	ctx := context.Background()

	category, err := service.Create(ctx, CategoryInput{Name: "Tents"})
	require.NoError(t, err)

	products := NewProductService(store.Products(), store.Categories(), newRecordingMedia(), validation.New(), validation.DefaultImageRule(), zap.NewNop())
	_, err = products.Create(ctx, validProductInput(category.ID))
	require.NoError(t, err)

	err = service.Delete(ctx, category.ID)
	assert.ErrorIs(t, err, repository.ErrConstraintViolation)
}
