package checkout

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/natalia-kut/OnlineShop/models"
	"github.com/natalia-kut/OnlineShop/services/cart"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	carts *cart.Service
}

func NewService(db *gorm.DB, carts *cart.Service) *Service {
	return &Service{db: db, carts: carts}
}

// Checkout converts the cart into an order inside a single transaction:
// every product is re-read from the database, validated against the
// requested quantities, and its stock decremented together with the order
// creation. Any failure rolls the whole attempt back and leaves the cart
// untouched so the buyer can retry. The cart is cleared only after commit.
//
// The order total is computed from the unit prices snapshotted when the
// items were added, not from the possibly-changed current prices. Product
// name and image on the order items are taken at checkout time.
func (s *Service) Checkout(c *models.Cart, userID string) (*models.Order, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	items, err := s.carts.Items(c)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	var order models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// A token can outlive the account it was issued for; orders hold a
		// hard reference to the buyer, so a missing row is a rejection, not
		// a constraint violation later on.
		var buyer models.User
		if err := tx.First(&buyer, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrUnauthenticated
			}
			return fmt.Errorf("fetch buyer: %w", err)
		}

		ids := make([]uint, 0, len(items))
		seen := make(map[uint]bool, len(items))
		for _, it := range items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}

		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// Validate the whole cart before touching anything. The first
		// failing item aborts the entire checkout.
		total := decimal.Zero
		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok {
				return &models.ProductGoneError{ProductID: it.ProductID}
			}
			if p.Stock < it.Quantity {
				return &models.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Stock,
				}
			}
			total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		order = models.Order{
			UserID:     userID,
			Status:     models.OrderStatusNew,
			TotalPrice: total,
			CreatedAt:  time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, it := range items {
			p := byID[it.ProductID]
			productID := it.ProductID
			oi := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    &productID,
				ProductName:  p.Name,
				ProductImage: p.ImageURL,
				Quantity:     it.Quantity,
				UnitPrice:    it.UnitPrice,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			order.Items = append(order.Items, oi)

			// The decrement only applies while enough stock remains, so a
			// racing checkout cannot take the counter below zero.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", p.ID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				// A concurrent writer got between our read and this update.
				var current models.Product
				if err := tx.First(&current, "id = ?", p.ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &models.ProductGoneError{ProductID: p.ID}
					}
					return fmt.Errorf("re-read product: %w", err)
				}
				return &models.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   current.Stock,
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed at this point. A failed clear leaves stale
	// cart rows behind but must not report the placed order as failed.
	if err := s.carts.Clear(c); err != nil {
		log.Printf("clear cart after checkout of order %d: %v", order.ID, err)
	}
	return &order, nil
}
