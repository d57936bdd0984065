package service

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"pos-inventory/internal/storage"
)

// Integer is a whole number that also accepts its decimal string form,
// the way form fields arrive
type Integer int64

func (i *Integer) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf(int64(0))}
	}
	*i = Integer(v)
	return nil
}

// OptionalString is a nullable field that remembers whether it was sent.
// Updates leave the stored value alone when it was not.
type OptionalString struct {
	Set   bool
	Value *string
}

// SetString returns an OptionalString that was sent with value
func SetString(value *string) OptionalString {
	return OptionalString{Set: true, Value: value}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf("")}
	}
	o.Value = &s
	return nil
}

// CategoryInput is the body accepted by category create and update
type CategoryInput struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description OptionalString `json:"description"`
}

// ProductInput is the body accepted by product create and update.
// Numeric fields are pointers so that an explicit zero passes "required".
type ProductInput struct {
	CategoryID  *Integer       `json:"category_id" validate:"required"`
	Name        string         `json:"name" validate:"required,max=255"`
	Description OptionalString `json:"description"`
	Price       *Integer       `json:"price" validate:"required,gte=0"`
	Stock       *Integer       `json:"stock" validate:"required,gte=0"`
	Status      string         `json:"status" validate:"required,oneof=draft published archived"`
	Criteria    string         `json:"criteria" validate:"required,oneof=perorangan rombongan"`
	Favorite    *bool          `json:"favorite"`

	Image *storage.Upload `json:"-" validate:"-"`
}

// CreateOrderInput is the body accepted by order create
type CreateOrderInput struct {
	TransactionTime string   `json:"transaction_time" validate:"required,date"`
	TotalPrice      *Integer `json:"total_price" validate:"required,gte=0"`
	TotalItem       *Integer `json:"total_item" validate:"required,gte=1"`
	PaymentAmount   *Integer `json:"payment_amount" validate:"required,gte=0"`
	CashierID       *Integer `json:"cashier_id" validate:"required"`
	CashierName     string   `json:"cashier_name" validate:"required,max=255"`
	PaymentMethod   string   `json:"payment_method" validate:"required,max=50"`
}

// UpdateOrderInput is the body accepted by order update. Cashier and
// transaction time cannot change once recorded.
type UpdateOrderInput struct {
	TotalPrice    *Integer `json:"total_price" validate:"required,gte=0"`
	TotalItem     *Integer `json:"total_item" validate:"required,gte=1"`
	PaymentAmount *Integer `json:"payment_amount" validate:"required,gte=0"`
	PaymentMethod string   `json:"payment_method" validate:"required,max=50"`
}

// RegisterInput is the body accepted by account registration
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput is the body accepted by login
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutInput optionally names the refresh token to revoke
type LogoutInput struct {
	RefreshToken string `json:"refresh_token"`
}
