package transport

import (
	"fmt"
	"net/http"
	"testing"

	"pos-inventory/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.login(t)

	code, body := api.json(t, token, http.MethodPost, "/categories", map[string]interface{}{
		"name":        "Camping",
		"description": "Outdoor gear",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Category created successfully", body.Message)

	var created domain.Category
	decodeData(t, body, &created)
	require.NotNil(t, created.Description)
	assert.Equal(t, "Outdoor gear", *created.Description)
	path := fmt.Sprintf("/categories/%d", created.ID)

	code, body = api.json(t, token, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category details", body.Message)

	code, body = api.json(t, token, http.MethodPut, path, map[string]interface{}{"name": "Hiking"})
	require.Equal(t, http.StatusOK, code)
	var updated domain.Category
	decodeData(t, body, &updated)
	assert.Equal(t, "Hiking", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Outdoor gear", *updated.Description)

	code, body = api.json(t, token, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, code)
	var list []domain.Category
	decodeData(t, body, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Hiking", list[0].Name)

	code, body = api.json(t, token, http.MethodPut, path, `{"name":"Hiking","description":null}`)
	require.Equal(t, http.StatusOK, code)
	decodeData(t, body, &updated)
	assert.Nil(t, updated.Description)

	code, body = api.json(t, token, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category deleted successfully", body.Message)
	assert.Empty(t, body.Data)

	code, body = api.json(t, token, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", body.Message)
}

func TestCategoryHandler_Validation(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.login(t)

	code, body := api.json(t, token, http.MethodPost, "/categories", map[string]interface{}{"description": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "The name field is required.", body.Message)

	code, body = api.json(t, token, http.MethodPost, "/categories", map[string]interface{}{"name": 42})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "The name field must be a string.", body.Message)

	code, body = api.json(t, token, http.MethodPut, "/categories/999", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", body.Message)

	code, body = api.json(t, token, http.MethodPut, "/categories/999", `{"name":`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", body.Message)

	code, body = api.json(t, token, http.MethodDelete, "/categories/abc", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found", body.Message)
}

func TestCategoryHandler_DeleteInUseFails(t *testing.T) {
	api := newTestAPI(t)
	category := seedCategory(t, api, "Camping")
	token, _ := api.login(t)
	createTent(t, api, token, category.ID)

	code, body := api.json(t, token, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)

	code, _ = api.json(t, token, http.MethodGet, fmt.Sprintf("/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusOK, code)
}
