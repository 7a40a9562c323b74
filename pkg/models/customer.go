package models

import (
	"time"
)

type Customer struct {
	ID        int64     `gorm:"column:customer_id;primaryKey;autoIncrement" json:"customer_id"`
	Name      string    `gorm:"column:customer_name;type:varchar(100);not null" json:"customer_name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	CreatedAt time.Time `json:"created_at"`

	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}
