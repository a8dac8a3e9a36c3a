package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/models"
	"github.com/natalia-kut/OnlineShop/services/cart"
)

const (
	cartCookieName   = "cart_token"
	cartCookieMaxAge = 30 * 24 * 60 * 60 // the anonymous cart token lives ~30 days
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=100"`
}

// session builds the service-level session from the request: the optional
// authenticated user id set by middleware and the cart token cookie.
func session(c *gin.Context) cart.Session {
	sess := cart.Session{}
	if userID, ok := c.Get("user_id"); ok {
		sess.UserID, _ = userID.(string)
	}
	if token, err := c.Cookie(cartCookieName); err == nil {
		sess.Token = token
	}
	return sess
}

// applyTokenDirectives forwards the resolution's token instructions to the
// browser. The service itself never touches cookies.
func applyTokenDirectives(c *gin.Context, res *cart.Resolution) {
	if res.IssueToken != "" {
		c.SetCookie(cartCookieName, res.IssueToken, cartCookieMaxAge, "/", "", false, true)
	}
	if res.ClearToken {
		c.SetCookie(cartCookieName, "", -1, "/", "", false, true)
	}
}

// GET /cart
func GetCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Resolve(session(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		applyTokenDirectives(c, res)

		items, err := svc.Items(res.Cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}
		total, err := svc.Total(res.Cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cart total"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart_id": res.Cart.ID, "items": items, "total": total})
	}
}

// POST /cart/items
func AddItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		res, err := svc.Resolve(session(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		applyTokenDirectives(c, res)

		item, err := svc.AddItem(res.Cart, input.ProductID, input.Quantity)
		if err != nil {
			var insufficient *models.InsufficientStockError
			var gone *models.ProductGoneError
			switch {
			case errors.Is(err, models.ErrOutOfStock):
				c.JSON(http.StatusConflict, gin.H{"error": "Product is out of stock"})
			case errors.Is(err, models.ErrQuantityLimit):
				c.JSON(http.StatusBadRequest, gin.H{"error": "No more than 100 units of a product per cart"})
			case errors.As(err, &insufficient):
				c.JSON(http.StatusConflict, gin.H{
					"error":     err.Error(),
					"available": insufficient.Available,
				})
			case errors.As(err, &gone):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			}
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /cart/items/:item_id
func RemoveItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseID(c, "item_id")
		if !ok {
			return
		}

		res, err := svc.Resolve(session(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		applyTokenDirectives(c, res)

		// Removing an id that is already gone is fine.
		if err := svc.RemoveItem(res.Cart, itemID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /cart
func ClearCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Resolve(session(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}

		if err := svc.Clear(res.Cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.SetCookie(cartCookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id64), true
}
