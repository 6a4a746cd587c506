// Package monitor classifies security events into a closed category set and
// maintains the rolling per-source aggregates behind the dashboard.
package monitor

import (
	"strings"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

// Category is the semantic bucket an event falls into. The set is closed:
// adding a category means extending the enum and the exhaustive switch in
// Label, which the compiler then checks at every use site.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryAuth       Category = "auth"
	CategoryUsers      Category = "users"
	CategoryOrders     Category = "orders"
	CategoryPayments   Category = "payments"
	CategoryAdmin      Category = "admin"
	CategoryMonitoring Category = "monitoring"
	CategoryBOLA       Category = "bola"
)

// Label returns the human-readable name shown by the dashboard.
func (c Category) Label() string {
	switch c {
	case CategoryAuth:
		return "Authentication"
	case CategoryUsers:
		return "User Management"
	case CategoryOrders:
		return "Order Operations"
	case CategoryPayments:
		return "Payments & Finance"
	case CategoryAdmin:
		return "Admin & Audit"
	case CategoryMonitoring:
		return "Monitoring & Health"
	case CategoryBOLA:
		return "BOLA Alerts"
	default:
		return "General Traffic"
	}
}

// Classify assigns an event to a category. Pure function of the event's key
// and resource path. Tie-break order: an explicit BOLA marker in the event
// key wins over any path prefix; the path prefix wins over the default.
func Classify(ev securitylog.Event) Category {
	key := strings.ToLower(ev.Key)
	if strings.Contains(key, "bola") {
		return CategoryBOLA
	}

	path := strings.ToLower(ev.Resource)
	action := strings.ToLower(ev.Message)
	switch {
	case strings.Contains(path, "/auth") || strings.Contains(path, "login") || strings.Contains(action, "login"):
		return CategoryAuth
	case strings.Contains(path, "/orders"):
		return CategoryOrders
	case strings.Contains(path, "/users"):
		return CategoryUsers
	case strings.Contains(path, "/payments"):
		return CategoryPayments
	case strings.Contains(path, "/admin") || strings.Contains(path, "/security"):
		return CategoryAdmin
	case strings.Contains(path, "/health") || strings.Contains(path, "/stats"):
		return CategoryMonitoring
	}

	// No usable path: fall back to the event key's resource hints.
	switch {
	case strings.Contains(key, "login") || strings.Contains(key, "auth_failure"):
		return CategoryAuth
	case strings.Contains(key, "order"):
		return CategoryOrders
	case strings.Contains(key, "user"):
		return CategoryUsers
	case strings.Contains(key, "payment"):
		return CategoryPayments
	case strings.Contains(key, "admin"):
		return CategoryAdmin
	}
	return CategoryGeneral
}
