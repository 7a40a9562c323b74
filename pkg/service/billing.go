package service

import (
	"context"

	"github.com/example/shopstore/pkg/models"
	"github.com/example/shopstore/pkg/repository"
	"go.uber.org/zap"
)

type BillingService struct {
	deps
	db *repository.Database
}

func NewBillingService(db *repository.Database, opts ...Option) *BillingService {
	return &BillingService{deps: newDeps(opts), db: db}
}

// GetBill assembles the receipt of an order. Orders are never modified after
// they are placed, so a cached bill is served as is.
func (s *BillingService) GetBill(ctx context.Context, orderID int64) (*models.Bill, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBillCache(ctx, orderID); err == nil {
			return cached, nil
		}
	}

	orders := repository.NewOrderRepository(s.db.DB)
	header, err := orders.FindBillHeader(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := orders.FindItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		OrderID:      header.OrderID,
		OrderDate:    header.OrderDate,
		Status:       header.Status,
		CustomerID:   header.CustomerID,
		CustomerName: header.CustomerName,
		Email:        header.Email,
		Phone:        header.Phone,
		Address:      header.Address,
		City:         header.City,
		Items:        items,
		TotalAmount:  header.TotalAmount,
	}

	if s.cache != nil {
		if err := s.cache.CacheBill(ctx, bill); err != nil {
			s.logger.Warn("Failed to cache bill", zap.Int64("order_id", orderID), zap.Error(err))
		}
	}
	return bill, nil
}
