package repository

import (
	"context"
	"time"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and then its items, in slice order, stamping each
// item with the new order id.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := db.Omit(clause.Associations).Create(&items).Error; err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindItems returns the order's items joined with their product names.
func (r *OrderRepository) FindItems(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	items := []models.OrderItemDetail{}
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.item_id, order_items.order_id, order_items.product_id, products.product_name, "+
			"order_items.quantity, order_items.unit_price, order_items.subtotal").
		Joins("JOIN products ON products.product_id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.item_id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// BillHeader is an order joined with the contact fields of its customer.
type BillHeader struct {
	OrderID      int64              `gorm:"column:order_id"`
	OrderDate    time.Time          `gorm:"column:order_date"`
	Status       models.OrderStatus `gorm:"column:status"`
	TotalAmount  decimal.Decimal    `gorm:"column:total_amount"`
	CustomerID   int64              `gorm:"column:customer_id"`
	CustomerName string             `gorm:"column:customer_name"`
	Email        string             `gorm:"column:email"`
	Phone        string             `gorm:"column:phone"`
	Address      string             `gorm:"column:address"`
	City         string             `gorm:"column:city"`
}

func (r *OrderRepository) FindBillHeader(ctx context.Context, orderID int64) (*BillHeader, error) {
	var header BillHeader
	result := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.order_id, orders.order_date, orders.status, orders.total_amount, orders.customer_id, "+
			"customers.customer_name, customers.email, customers.phone, customers.address, customers.city").
		Joins("JOIN customers ON customers.customer_id = orders.customer_id").
		Where("orders.order_id = ?", orderID).
		Limit(1).
		Scan(&header)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("Order not found")
	}
	return &header, nil
}
