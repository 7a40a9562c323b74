package service

import (
	"context"
	"errors"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/models"
	"github.com/example/shopstore/pkg/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderPolicy selects how PlaceOrder treats the cases the store leaves open.
type OrderPolicy struct {
	// AllowOversell lets stock go negative instead of rejecting the order.
	AllowOversell bool
	// AllowEmpty accepts orders without items, recorded with a zero total.
	AllowEmpty bool
}

type OrderService struct {
	deps
	db     *repository.Database
	policy OrderPolicy
}

func NewOrderService(db *repository.Database, policy OrderPolicy, opts ...Option) *OrderService {
	return &OrderService{deps: newDeps(opts), db: db, policy: policy}
}

type LineItemInput struct {
	ProductID int64
	Quantity  int
}

type PlaceOrderInput struct {
	CustomerID int64
	Items      []LineItemInput
}

// PlacedOrder is the outcome of a committed order.
type PlacedOrder struct {
	OrderID     int64
	CustomerID  int64
	TotalAmount decimal.Decimal
	Items       []models.OrderItem
}

func (s *OrderService) validate(in PlaceOrderInput) error {
	if len(in.Items) == 0 && !s.policy.AllowEmpty {
		return apperror.Validation("order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return apperror.Validation("quantity for product %d must be positive", item.ProductID)
		}
	}
	return nil
}

// PlaceOrder records an order with its items and takes the ordered quantities
// out of stock. Either every write is committed or none is.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlacedOrder, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if _, err := repository.NewCustomerRepository(s.db.DB).FindByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	order := &models.Order{CustomerID: in.CustomerID, Status: models.OrderStatusPending}
	items := make([]models.OrderItem, 0, len(in.Items))

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		products := repository.NewProductRepository(tx)

		ids := make([]int64, 0, len(in.Items))
		seen := make(map[int64]bool, len(in.Items))
		for _, item := range in.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}

		found, err := products.FindForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range in.Items {
			product, ok := found[item.ProductID]
			if !ok {
				return apperror.NotFound("Product %d not found", item.ProductID)
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
		}
		order.TotalAmount = total

		if err := repository.NewOrderRepository(tx).Create(ctx, order, items); err != nil {
			return err
		}

		for _, item := range items {
			if err := products.DecrementStock(ctx, item.ProductID, item.Quantity, s.policy.AllowOversell); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			err = apperror.Write("failed to place order", err)
		}
		s.logger.Warn("Order rejected", zap.Int64("customer_id", in.CustomerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(items)))

	if s.cache != nil && len(items) > 0 {
		ids := make([]int64, len(items))
		for i, item := range items {
			ids[i] = item.ProductID
		}
		// the order is committed; a client that went away must not leave stale stock cached
		cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
		err := s.cache.InvalidateProducts(cacheCtx, ids...)
		cancel()
		if err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
		}
	}

	s.record(ctx, repository.ActionCreateOrder, "order", order.ID, bson.M{
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount.StringFixed(2),
		"items":        len(items),
	})

	return &PlacedOrder{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}, nil
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID int64) ([]models.Order, error) {
	return repository.NewOrderRepository(s.db.DB).FindByCustomer(ctx, customerID)
}

func (s *OrderService) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	return repository.NewOrderRepository(s.db.DB).FindItems(ctx, orderID)
}
