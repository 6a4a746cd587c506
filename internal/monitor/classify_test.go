package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   securitylog.Event
		want Category
	}{
		{
			name: "bola marker wins over path",
			ev:   securitylog.Event{Key: "ORDER_ACCESS_BOLA", Resource: "/api/orders/3"},
			want: CategoryBOLA,
		},
		{
			name: "auth path",
			ev:   securitylog.Event{Key: "AUTH_FAILURE", Resource: "/api/auth/login"},
			want: CategoryAuth,
		},
		{
			name: "orders path",
			ev:   securitylog.Event{Key: "UNAUTHORIZED_ACCESS_BLOCKED", Resource: "/api/orders/15"},
			want: CategoryOrders,
		},
		{
			name: "users path",
			ev:   securitylog.Event{Key: "UNAUTHORIZED_USER_ACCESS_BLOCKED", Resource: "/api/users/2"},
			want: CategoryUsers,
		},
		{
			name: "payments path",
			ev:   securitylog.Event{Key: "PAYMENT_CREATED", Resource: "/api/payments"},
			want: CategoryPayments,
		},
		{
			name: "security path is admin",
			ev:   securitylog.Event{Key: "ADMIN_AUDIT", Resource: "/api/security/logs"},
			want: CategoryAdmin,
		},
		{
			name: "health path is monitoring",
			ev:   securitylog.Event{Key: "ADMIN_HEALTH_CHECK", Resource: "/health"},
			want: CategoryMonitoring,
		},
		{
			name: "no signal falls back to general",
			ev:   securitylog.Event{Key: "SOMETHING_ELSE"},
			want: CategoryGeneral,
		},
		{
			name: "blocked key without resource hints is general",
			ev:   securitylog.Event{Key: "UNAUTHORIZED_UPDATE_BLOCKED"},
			want: CategoryGeneral,
		},
		{
			name: "order key classifies without path",
			ev:   securitylog.Event{Key: "ORDER_CREATED"},
			want: CategoryOrders,
		},
		{
			name: "bola beats auth path",
			ev:   securitylog.Event{Key: "BOLA_ATTEMPT", Resource: "/api/auth/login"},
			want: CategoryBOLA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ev))
		})
	}
}

func TestCategoryLabelIsExhaustive(t *testing.T) {
	for _, c := range []Category{
		CategoryGeneral, CategoryAuth, CategoryUsers, CategoryOrders,
		CategoryPayments, CategoryAdmin, CategoryMonitoring, CategoryBOLA,
	} {
		assert.NotEmpty(t, c.Label())
	}
}
