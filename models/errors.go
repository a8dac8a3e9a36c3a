package models

import (
	"errors"
	"fmt"
)

// Business failure kinds surfaced by the cart, checkout and order services.
// They are expected outcomes meant for user-facing messaging, never fatal.
var (
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnauthenticated = errors.New("checkout requires a signed-in user")
	ErrConflict        = errors.New("order was modified by a concurrent edit")
	ErrQuantityLimit   = errors.New("item quantity limit reached")
)

// InsufficientStockError reports how many units can still be bought or added.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: %d available", e.ProductName, e.Available)
}

// ProductGoneError means a product referenced by a cart no longer exists.
type ProductGoneError struct {
	ProductID uint
}

func (e *ProductGoneError) Error() string {
	return fmt.Sprintf("product %d no longer exists", e.ProductID)
}
