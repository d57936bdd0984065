package transport

import (
	"net/http"
	"strings"

	"pos-inventory/internal/domain"
	"pos-inventory/internal/middleware"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/service"
	"pos-inventory/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products and their trash
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		// multipart clients cannot send PUT from plain forms
		r.Post("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	r.Post("/categories/products/{id}/restore", h.Restore)
	r.Delete("/categories/products/{id}/force-delete", h.ForceDelete)
}

// List handles GET /products with optional trashed, category_id, status,
// favorite and q filters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilter(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "List of products", products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, release, err := bindProductInput(w, r)
	defer release()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrProductNotFound)
		return
	}

	visibility := domain.ParseVisibility(r.URL.Query().Get("trashed"))
	product, err := h.productService.Get(r.Context(), id, visibility)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Product details", product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrProductNotFound)
		return
	}

	// trashed products are editable too
	if _, err := h.productService.Get(r.Context(), id, domain.VisibilityAll); err != nil {
		respondError(w, h.logger, err)
		return
	}

	input, release, err := bindProductInput(w, r)
	defer release()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrProductNotFound)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Product soft deleted successfully", nil)
}

func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrProductNotInTrash)
		return
	}

	product, err := h.productService.Restore(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Product restored successfully", product)
}

func (h *ProductHandler) ForceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrProductNotInTrash)
		return
	}

	if err := h.productService.ForceDelete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Product permanently deleted", nil)
}

func productFilter(r *http.Request) (repository.ProductFilter, error) {
	query := r.URL.Query()
	filter := repository.ProductFilter{
		Visibility: domain.ParseVisibility(query.Get("trashed")),
		Search:     strings.TrimSpace(query.Get("q")),
	}

	var err error
	if filter.CategoryID, err = queryInt(r, "category_id"); err != nil {
		return filter, err
	}
	if filter.Favorite, err = queryBool(r, "favorite"); err != nil {
		return filter, err
	}

	if raw := query.Get("status"); raw != "" {
		status := domain.ProductStatus(raw)
		switch status {
		case domain.ProductStatusDraft, domain.ProductStatusPublished, domain.ProductStatusArchived:
			filter.Status = &status
		default:
			return filter, validation.NewError("status", "The selected status is invalid.")
		}
	}

	return filter, nil
}
