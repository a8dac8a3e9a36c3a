package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusNew is the status every order is created with. Later values are
// free-form and set by administrators.
const OrderStatusNew = "new"

type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     string          `gorm:"not null" json:"user_id"`
	User       User            `gorm:"foreignKey:UserID" json:"user"`
	Status     string          `gorm:"type:VARCHAR(30);default:'new'" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`
	Version    int             `gorm:"not null;default:1" json:"version"` // bumped on every administrative edit
	Items      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderItem keeps a denormalized snapshot of the product so historical
// orders stay readable after the product is edited or deleted.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"index" json:"order_id"`
	ProductID    *uint           `json:"product_id"`
	Product      *Product        `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Notes        string          `gorm:"size:500" json:"notes"`
}
