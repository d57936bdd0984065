package domain

import "time"

// Order is a completed point-of-sale transaction
type Order struct {
	ID              int64     `json:"id" db:"id"`
	TransactionTime time.Time `json:"transaction_time" db:"transaction_time"`
	TotalPrice      int64     `json:"total_price" db:"total_price"`
	TotalItem       int64     `json:"total_item" db:"total_item"`
	PaymentAmount   int64     `json:"payment_amount" db:"payment_amount"`
	CashierID       int64     `json:"cashier_id" db:"cashier_id"`
	CashierName     string    `json:"cashier_name" db:"cashier_name"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Cashier *Cashier `json:"cashier,omitempty"`
}

// Cashier is the public profile of the user who rang up an order
type Cashier struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
