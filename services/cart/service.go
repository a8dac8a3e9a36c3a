package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/natalia-kut/OnlineShop/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Session identifies the caller of a cart operation. UserID is empty for
// anonymous visitors. Token is the opaque cart token the transport layer
// received from the caller (typically a cookie), empty when none was sent.
type Session struct {
	UserID string
	Token  string
}

// Resolution is the outcome of Resolve. IssueToken, when non-empty, must be
// handed back to the caller for storage; ClearToken tells the caller to drop
// the token it presented because the cart it pointed at no longer exists as
// an anonymous cart.
type Resolution struct {
	Cart       *models.Cart
	IssueToken string
	ClearToken bool
}

// maxItemQuantity bounds a single cart line. The HTTP layer caps each
// request at the same figure, but repeated adds accumulate, so the bound is
// enforced here too.
const maxItemQuantity = 100

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Resolve returns the cart to use for the current interaction, creating one
// lazily when the caller has none yet.
//
// Authenticated callers get their own cart. An anonymous cart referenced by
// the presented token is attached to the user when they had no cart, or
// merged into their cart when they did; either way the anonymous cart is
// gone afterwards and the token must be cleared.
func (s *Service) Resolve(sess Session) (*Resolution, error) {
	if sess.UserID != "" {
		return s.resolveUser(sess)
	}
	return s.resolveAnonymous(sess)
}

func (s *Service) resolveUser(sess Session) (*Resolution, error) {
	userCart, err := s.findUserCart(sess.UserID)
	if err != nil {
		return nil, err
	}
	anonCart, err := s.findTokenCart(sess.Token)
	if err != nil {
		return nil, err
	}

	switch {
	case anonCart != nil && userCart == nil:
		// The anonymous cart becomes the user's cart.
		updates := map[string]interface{}{
			"user_id":    sess.UserID,
			"token":      nil,
			"updated_at": time.Now(),
		}
		if err := s.db.Model(anonCart).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("attach cart to user: %w", err)
		}
		userID := sess.UserID
		anonCart.UserID = &userID
		anonCart.Token = nil
		return &Resolution{Cart: anonCart, ClearToken: true}, nil

	case anonCart != nil && userCart != nil && anonCart.ID != userCart.ID:
		if err := s.merge(anonCart, userCart); err != nil {
			return nil, err
		}
		return &Resolution{Cart: userCart, ClearToken: true}, nil

	case userCart != nil:
		return &Resolution{Cart: userCart}, nil
	}

	userID := sess.UserID
	newCart := &models.Cart{UserID: &userID}
	if err := s.db.Create(newCart).Error; err != nil {
		return nil, fmt.Errorf("create user cart: %w", err)
	}
	return &Resolution{Cart: newCart}, nil
}

func (s *Service) resolveAnonymous(sess Session) (*Resolution, error) {
	existing, err := s.findTokenCart(sess.Token)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Resolution{Cart: existing}, nil
	}

	token := uuid.NewString()
	newCart := &models.Cart{Token: &token}
	if err := s.db.Create(newCart).Error; err != nil {
		return nil, fmt.Errorf("create anonymous cart: %w", err)
	}
	return &Resolution{Cart: newCart, IssueToken: token}, nil
}

// merge folds the anonymous cart's items into the user cart and deletes the
// anonymous cart. Runs as one transaction so a concurrent request from the
// same browser can never observe the items in neither cart.
func (s *Service) merge(anonCart, userCart *models.Cart) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var anonItems []models.CartItem
		if err := tx.Where("cart_id = ?", anonCart.ID).Find(&anonItems).Error; err != nil {
			return err
		}

		for _, ai := range anonItems {
			var existing models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", userCart.ID, ai.ProductID).
				First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).
					Update("quantity", existing.Quantity+ai.Quantity).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Move the row rather than copy it.
				if err := tx.Model(&models.CartItem{}).Where("id = ?", ai.ID).
					Update("cart_id", userCart.ID).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := tx.Where("cart_id = ?", anonCart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(anonCart).Error; err != nil {
			return err
		}
		return tx.Model(userCart).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return fmt.Errorf("merge carts: %w", err)
	}
	return nil
}

// AddItem puts quantity units of a product into the cart, incrementing the
// existing row when the cart already holds that product. The unit price is
// snapshotted from the product at add time. Fails with ErrOutOfStock when
// the product has no stock at all, with InsufficientStockError (carrying
// the count still addable) when the request exceeds what is left, and with
// ErrQuantityLimit when the line would grow past maxItemQuantity.
func (s *Service) AddItem(c *models.Cart, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ProductGoneError{ProductID: productID}
		}
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	if product.Stock <= 0 {
		return nil, models.ErrOutOfStock
	}

	var item models.CartItem
	held := 0
	err := s.db.Where("cart_id = ? AND product_id = ?", c.ID, productID).First(&item).Error
	switch {
	case err == nil:
		held = item.Quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("fetch cart item: %w", err)
	}

	if held+quantity > maxItemQuantity {
		return nil, models.ErrQuantityLimit
	}
	if held+quantity > product.Stock {
		return nil, &models.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock - held,
		}
	}

	if held == 0 {
		item = models.CartItem{
			CartID:    c.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			AddedAt:   time.Now(),
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("create cart item: %w", err)
		}
	} else {
		item.Quantity = held + quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
	}

	if err := s.touch(c); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a cart item owned by the given cart. Removing an id
// that is already gone is a no-op, not an error.
func (s *Service) RemoveItem(c *models.Cart, itemID uint) error {
	res := s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return s.touch(c)
}

// Clear drops every item and detaches the anonymous token, so a stale cookie
// can no longer resolve to the cleared cart.
func (s *Service) Clear(c *models.Cart) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", c.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", c.ID).
			Updates(map[string]interface{}{"token": nil, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	c.Token = nil
	c.Items = nil
	return nil
}

// Items lists the cart's items in insertion order.
func (s *Service) Items(c *models.Cart) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.Where("cart_id = ?", c.ID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

// Total sums unit price times quantity over the cart's items, using the
// prices snapshotted at add time.
func (s *Service) Total(c *models.Cart) (decimal.Decimal, error) {
	items, err := s.Items(c)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

func (s *Service) findUserCart(userID string) (*models.Cart, error) {
	var c models.Cart
	err := s.db.Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user cart: %w", err)
	}
	return &c, nil
}

func (s *Service) findTokenCart(token string) (*models.Cart, error) {
	if token == "" {
		return nil, nil
	}
	var c models.Cart
	err := s.db.Where("token = ? AND user_id IS NULL", token).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch anonymous cart: %w", err)
	}
	return &c, nil
}

func (s *Service) touch(c *models.Cart) error {
	if err := s.db.Model(&models.Cart{}).Where("id = ?", c.ID).
		Update("updated_at", time.Now()).Error; err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
