package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    *string    `gorm:"uniqueIndex" json:"user_id"` // one cart per user; NULL for anonymous carts
	Token     *string    `gorm:"uniqueIndex" json:"-"`       // opaque token held by anonymous callers; cleared on attach
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint            `gorm:"uniqueIndex:idx_cart_product" json:"product_id"` // one row per (cart, product)
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"` // snapshot taken when the item was added
	AddedAt   time.Time       `json:"added_at"`
}
