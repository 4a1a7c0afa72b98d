package model

import (
	"github.com/shopspring/decimal"
)

type Order struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"` // 外鍵，關聯到 User
	// external payment identifier, at most one order per id
	PaymentGatewayID *string         `gorm:"uniqueIndex;type:varchar(100)"`
	TotalAmount      decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Status           string          `gorm:"not null;type:varchar(20);default:pending"`
	OrderItems       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	BaseModel
}

type OrderItem struct {
	OrderID   uint `gorm:"primaryKey"` // 外鍵，關聯到 Order
	ProductID uint `gorm:"primaryKey"` // 外鍵，關聯到 Product
	Quantity  int  `gorm:"not null"`
	// snapshot of the product price at order time, immutable afterward
	PriceAtPurchase decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	BaseModel
}
