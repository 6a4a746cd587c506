// Package models holds the order record and its client-facing shapes.
// Every order belongs to exactly one user and carries data that must never
// be served to anyone else; the store and handler packages both build on
// these types.
package models

import "time"

// Status is the order lifecycle state accepted on update.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the accepted states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is the stored record. CreditCard, Address and Phone are the
// sensitive fields a BOLA attack would exfiltrate.
type Order struct {
	ID         int64
	UserID     int64
	Product    string
	Amount     float64
	Status     Status
	CreditCard string
	Address    string
	Phone      string
	CreatedAt  time.Time
}

// View is the full client-facing order shape, served only to the owner or
// an admin.
type View struct {
	ID         int64     `json:"id"`
	Product    string    `json:"product"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	CreditCard string    `json:"creditCard,omitempty"`
	Address    string    `json:"address,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Summary is the list shape; it excludes payment details.
type Summary struct {
	ID        int64     `json:"id"`
	Product   string    `json:"product"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (o Order) View() View {
	return View{
		ID:         o.ID,
		Product:    o.Product,
		Amount:     o.Amount,
		Status:     string(o.Status),
		CreditCard: o.CreditCard,
		Address:    o.Address,
		Phone:      o.Phone,
		CreatedAt:  o.CreatedAt,
	}
}

func (o Order) Summary() Summary {
	return Summary{
		ID:        o.ID,
		Product:   o.Product,
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}
