// Package models holds the payment record and its masked client-facing
// shapes. Bank details are the most sensitive data in the demo; even the
// owner only ever sees a masked account number.
package models

import "time"

// Status is the payment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Payment is the stored record. BankAccount and RoutingNumber never leave
// the package unmasked.
type Payment struct {
	ID            int64
	UserID        int64
	OrderID       int64
	Amount        float64
	BankAccount   string
	RoutingNumber string
	Status        Status
	CreatedAt     time.Time
}

// View is the client-facing shape with the account number masked.
type View struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"orderId"`
	Amount      float64   `json:"amount"`
	BankAccount string    `json:"bankAccount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdminView additionally identifies the owner. Still masked.
type AdminView struct {
	View
	UserID    int64  `json:"userId"`
	UserEmail string `json:"userEmail,omitempty"`
}

func (p Payment) View() View {
	return View{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		BankAccount: maskAccount(p.BankAccount),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}

// maskAccount keeps the last four characters. Short values mask entirely.
func maskAccount(account string) string {
	if len(account) < 4 {
		return "****"
	}
	return "****" + account[len(account)-4:]
}
