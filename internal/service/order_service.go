package service

import (
	"context"
	"time"

	"pos-inventory/internal/domain"
	"pos-inventory/internal/events"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/validation"

	"go.uber.org/zap"
)

// OrderService defines the interface for order business logic
type OrderService interface {
	List(ctx context.Context) ([]*domain.Order, error)
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, id int64, input UpdateOrderInput) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	publisher events.Publisher
	validator *validation.Validator
	logger    *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	publisher events.Publisher,
	validator *validation.Validator,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := s.validator.StructExists(ctx, input, "cashier_id", s.users); err != nil {
		return nil, err
	}

	// the date tag already accepted the value
	transactionTime, err := validation.ParseDate(input.TransactionTime)
	if err != nil {
		return nil, validation.NewError("transaction_time", "The transaction time field must be a valid date.")
	}

	order := &domain.Order{
		TransactionTime: transactionTime,
		TotalPrice:      int64(*input.TotalPrice),
		TotalItem:       int64(*input.TotalItem),
		PaymentAmount:   int64(*input.PaymentAmount),
		CashierID:       int64(*input.CashierID),
		CashierName:     input.CashierName,
		PaymentMethod:   input.PaymentMethod,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order created", zap.Int64("order_id", order.ID), zap.Int64("cashier_id", order.CashierID))
	s.publish(ctx, events.OrderCreated, order.ID, order)
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *orderService) Update(ctx context.Context, id int64, input UpdateOrderInput) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	order.TotalPrice = int64(*input.TotalPrice)
	order.TotalItem = int64(*input.TotalItem)
	order.PaymentAmount = int64(*input.PaymentAmount)
	order.PaymentMethod = input.PaymentMethod
	order.Cashier = nil

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderUpdated, order.ID, order)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Order deleted", zap.Int64("order_id", id))
	s.publish(ctx, events.OrderDeleted, id, nil)
	return nil
}

// publish emits an order event. Delivery failures never fail the request.
func (s *orderService) publish(ctx context.Context, eventType events.EventType, orderID int64, order *domain.Order) {
	event := events.OrderEvent{
		Type:       eventType,
		OrderID:    orderID,
		Order:      order,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishOrder(ctx, event); err != nil {
		s.logger.Error("Failed to publish order event",
			zap.String("event_type", string(eventType)),
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}
