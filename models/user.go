package models

import "time"

// User mirrors the record kept by the external identity provider. Only the
// identifier matters to the cart and order services; the rest is display data.
type User struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"unique;not null" json:"email"`
	Name      string  `json:"name"`
	Orders    []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time
}
