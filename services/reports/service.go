// Package reports aggregates recorded payments into sales reports.
package reports

import (
	"context"
	"math"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"go.uber.org/zap"
)

// Totals summarises the rows of a report
type Totals struct {
	TotalRevenue   float64 `json:"total_revenue"`
	PaidRevenue    float64 `json:"paid_revenue"`
	PendingRevenue float64 `json:"pending_revenue"`
	Count          int     `json:"count"`
}

// SalesReport is the raw data a report renderer consumes
type SalesReport struct {
	Rows   []*models.Payment `json:"rows"`
	Totals Totals            `json:"totals"`
}

// Service builds sales reports
type Service struct {
	payments repositories.Collection[models.Payment]
	logger   *zap.Logger
}

// NewService creates a new report service
func NewService(payments repositories.Collection[models.Payment], logger *zap.Logger) *Service {
	return &Service{payments: payments, logger: logger}
}

// Sales reports every payment, optionally only those with status
func (s *Service) Sales(ctx context.Context, status models.PaymentStatus) (*SalesReport, error) {
	rows, err := s.load(ctx, status)
	if err != nil {
		return nil, err
	}
	return build(rows), nil
}

// SellerSales reports the payments that include an item sold by sellerEmail
func (s *Service) SellerSales(ctx context.Context, sellerEmail string, status models.PaymentStatus) (*SalesReport, error) {
	all, err := s.load(ctx, status)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.Payment, 0, len(all))
	for _, p := range all {
		if p.SoldBy(sellerEmail) {
			rows = append(rows, p)
		}
	}
	return build(rows), nil
}

func (s *Service) load(ctx context.Context, status models.PaymentStatus) ([]*models.Payment, error) {
	filter := repositories.Filter{}
	switch status {
	case "":
	case models.PaymentStatusPending, models.PaymentStatusPaid:
		filter["status"] = status
	default:
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidStatus.Message, nil).
			WithDetail("status", string(status))
	}

	rows, err := s.payments.Find(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to load payments", err)
	}
	return rows, nil
}

func build(rows []*models.Payment) *SalesReport {
	var t Totals
	for _, p := range rows {
		t.TotalRevenue += p.Price
		switch p.Status {
		case models.PaymentStatusPaid:
			t.PaidRevenue += p.Price
		case models.PaymentStatusPending:
			t.PendingRevenue += p.Price
		}
	}
	t.Count = len(rows)
	t.TotalRevenue = roundCents(t.TotalRevenue)
	t.PaidRevenue = roundCents(t.PaidRevenue)
	t.PendingRevenue = roundCents(t.PendingRevenue)

	return &SalesReport{Rows: rows, Totals: t}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
