package reports

import (
	"context"
	"testing"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories/memory"
	"github.com/medimart/medi-server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seed(t *testing.T) *Service {
	t.Helper()
	store := memory.NewStore()
	for _, p := range []*models.Payment{
		{Email: "a@x.com", Price: 10.1, Status: models.PaymentStatusPaid, SellerEmails: []string{"s1@x.com"}},
		{Email: "b@x.com", Price: 20.2, Status: models.PaymentStatusPending, SellerEmails: []string{"s1@x.com", "s2@x.com"}},
		{Email: "c@x.com", Price: 5, Status: models.PaymentStatusPaid, SellerEmails: []string{"s2@x.com"}},
	} {
		_, err := store.Payments.Insert(context.Background(), p)
		require.NoError(t, err)
	}
	return NewService(store.Payments, zap.NewNop())
}

func TestService_Sales(t *testing.T) {
	svc := seed(t)

	tests := []struct {
		name   string
		status models.PaymentStatus
		want   Totals
	}{
		{"all", "", Totals{TotalRevenue: 35.3, PaidRevenue: 15.1, PendingRevenue: 20.2, Count: 3}},
		{"paid only", models.PaymentStatusPaid, Totals{TotalRevenue: 15.1, PaidRevenue: 15.1, Count: 2}},
		{"pending only", models.PaymentStatusPending, Totals{TotalRevenue: 20.2, PendingRevenue: 20.2, Count: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.Sales(context.Background(), tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Totals)
			assert.Len(t, report.Rows, tt.want.Count)
		})
	}
}

func TestService_SellerSales(t *testing.T) {
	svc := seed(t)

	report, err := svc.SellerSales(context.Background(), "s1@x.com", "")
	require.NoError(t, err)
	assert.Equal(t, Totals{TotalRevenue: 30.3, PaidRevenue: 10.1, PendingRevenue: 20.2, Count: 2}, report.Totals)

	paid, err := svc.SellerSales(context.Background(), "s2@x.com", models.PaymentStatusPaid)
	require.NoError(t, err)
	require.Len(t, paid.Rows, 1)
	assert.Equal(t, "c@x.com", paid.Rows[0].Email)

	none, err := svc.SellerSales(context.Background(), "s9@x.com", "")
	require.NoError(t, err)
	assert.Empty(t, none.Rows)
	assert.Zero(t, none.Totals.Count)
}

func TestService_InvalidStatus(t *testing.T) {
	svc := seed(t)

	_, err := svc.Sales(context.Background(), "refunded")

	assert.True(t, services.IsValidationError(err))
}
