package transport

import (
	"net/http"

	"pos-inventory/internal/middleware"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers the category routes. Routes are flat so the
// product trash routes can live under /categories/products as well.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.List)
	r.Post("/categories", h.Create)
	r.Get("/categories/{id}", h.Show)
	r.Put("/categories/{id}", h.Update)
	r.Delete("/categories/{id}", h.Delete)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "List of categories", categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, h.logger, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusCreated, "Category created successfully", category)
}

func (h *CategoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrCategoryNotFound)
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Category details", category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrCategoryNotFound)
		return
	}

	// a missing category wins over a bad body
	if _, err := h.categoryService.Get(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	var input service.CategoryInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, h.logger, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrCategoryNotFound)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Category deleted successfully", nil)
}
