package model

import "time"

// Order is a customer order as seen by the back office. OrderNo is the
// human-facing business key used for status updates; ID is internal.
// Status is a write-once-unchecked label: the back office records whatever
// the operator sets and enforces no transition rules.
type Order struct {
	ID           int64     `json:"id" db:"id"`
	OrderNo      string    `json:"order_no" db:"order_no"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	TotalCents   int64     `json:"total_cents" db:"total_cents"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
