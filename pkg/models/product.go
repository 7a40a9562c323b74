package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	Name              string          `gorm:"column:product_name;type:varchar(200);not null" json:"product_name"`
	Description       string          `gorm:"type:text" json:"description"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	QuantityAvailable int             `gorm:"not null" json:"quantity_available"`
	ImageURL          string          `gorm:"type:varchar(500)" json:"image_url"`
	CreatedAt         time.Time       `json:"created_at"`

	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
