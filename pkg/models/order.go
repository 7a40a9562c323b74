package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Only pending is ever written; the other values reserve the column's domain.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          int64           `gorm:"column:order_id;primaryKey;autoIncrement" json:"order_id"`
	CustomerID  int64           `gorm:"not null;index" json:"customer_id"`
	OrderDate   time.Time       `gorm:"autoCreateTime" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one priced line of an order. UnitPrice is the product price
// captured when the order was placed.
type OrderItem struct {
	ID        int64           `gorm:"column:item_id;primaryKey;autoIncrement" json:"item_id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderItemDetail is an order item joined with its product name.
type OrderItemDetail struct {
	ID          int64           `gorm:"column:item_id" json:"item_id"`
	OrderID     int64           `gorm:"column:order_id" json:"order_id"`
	ProductID   int64           `gorm:"column:product_id" json:"product_id"`
	ProductName string          `gorm:"column:product_name" json:"product_name"`
	Quantity    int             `gorm:"column:quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal" json:"subtotal"`
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{&Customer{}, &Product{}, &Order{}, &OrderItem{}}
}
