package orders

import (
	"errors"
	"fmt"

	"github.com/natalia-kut/OnlineShop/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemEdit describes one line item in an administrative correction. A zero
// ID means a new line; existing lines not listed are removed.
type ItemEdit struct {
	ID        uint            `json:"id"`
	ProductID *uint           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Get(orderID uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.Preload("Items").First(&o, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) ListByUser(userID string) ([]models.Order, error) {
	var list []models.Order
	if err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

func (s *Service) ListAll() ([]models.Order, error) {
	var list []models.Order
	if err := s.db.Preload("User").Preload("Items").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// EditItems applies an administrative correction to an order's line items:
// lines in edits update or extend the order, lines missing from edits are
// removed, and the total is recomputed over the result. Stock is never
// touched here; it was committed at checkout time.
//
// version must match the order's current version. A stale version fails with
// ErrConflict instead of silently overwriting a concurrent edit; the final
// version-guarded update catches writers that raced past the initial read.
func (s *Service) EditItems(orderID uint, version int, status string, edits []ItemEdit) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if order.Version != version {
			return models.ErrConflict
		}

		posted := make(map[uint]bool, len(edits))
		for _, e := range edits {
			if e.ID != 0 {
				posted[e.ID] = true
			}
		}

		for _, existing := range order.Items {
			if !posted[existing.ID] {
				if err := tx.Delete(&models.OrderItem{}, "id = ?", existing.ID).Error; err != nil {
					return fmt.Errorf("remove order item: %w", err)
				}
			}
		}

		for _, e := range edits {
			if e.ID != 0 {
				if err := tx.Model(&models.OrderItem{}).
					Where("id = ? AND order_id = ?", e.ID, order.ID).
					Updates(map[string]interface{}{
						"quantity":   e.Quantity,
						"unit_price": e.UnitPrice,
						"notes":      e.Notes,
					}).Error; err != nil {
					return fmt.Errorf("update order item: %w", err)
				}
				continue
			}
			if e.Quantity < 0 {
				continue
			}
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: e.ProductID,
				Quantity:  e.Quantity,
				UnitPrice: e.UnitPrice,
				Notes:     e.Notes,
			}
			// New lines referencing a live product take its current
			// name/image snapshot; the product may be gone by now.
			if e.ProductID != nil {
				var p models.Product
				err := tx.First(&p, "id = ?", *e.ProductID).Error
				switch {
				case err == nil:
					oi.ProductName = p.Name
					oi.ProductImage = p.ImageURL
				case errors.Is(err, gorm.ErrRecordNotFound):
					oi.ProductID = nil
				default:
					return fmt.Errorf("fetch product: %w", err)
				}
			}
			if err := tx.Create(&oi).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		var remaining []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&remaining).Error; err != nil {
			return fmt.Errorf("reload order items: %w", err)
		}
		total := decimal.Zero
		for _, it := range remaining {
			total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		if status == "" {
			status = order.Status
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, version).
			Updates(map[string]interface{}{
				"total_price": total,
				"status":      status,
				"version":     version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("update order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// Delete removes an order and its items. Administrative only; stock is not
// restored.
func (s *Service) Delete(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Delete(&models.Order{}, "id = ?", orderID).Error; err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
}
