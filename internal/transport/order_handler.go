package transport

import (
	"net/http"

	"pos-inventory/internal/middleware"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers the order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "List of orders", orders)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.orderService.Create(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrOrderNotFound)
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Order details", order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrOrderNotFound)
		return
	}

	if _, err := h.orderService.Get(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	var input service.UpdateOrderInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, h.logger, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Order updated successfully", order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, h.logger, repository.ErrOrderNotFound)
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondSuccess(w, http.StatusOK, "Order deleted successfully", nil)
}
