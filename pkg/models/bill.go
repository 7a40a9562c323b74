package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is the read-only receipt of one order.
type Bill struct {
	OrderID      int64             `json:"order_id"`
	OrderDate    time.Time         `json:"order_date"`
	Status       OrderStatus       `json:"status"`
	CustomerID   int64             `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	City         string            `json:"city"`
	Items        []OrderItemDetail `json:"items"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
}
