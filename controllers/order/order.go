package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/models"
	"github.com/natalia-kut/OnlineShop/services/cart"
	"github.com/natalia-kut/OnlineShop/services/checkout"
	"github.com/natalia-kut/OnlineShop/services/orders"
	"gorm.io/gorm"
)

const cartCookieName = "cart_token"

type EditOrderRequest struct {
	Version int               `json:"version" binding:"required,min=1"`
	Status  string            `json:"status"`
	Items   []orders.ItemEdit `json:"items"`
}

// POST /cart/checkout
func CheckoutHandler(carts *cart.Service, co *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, _ := userIDVal.(string)

		sess := cart.Session{UserID: userID}
		if token, err := c.Cookie(cartCookieName); err == nil {
			sess.Token = token
		}
		res, err := carts.Resolve(sess)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		if res.ClearToken {
			c.SetCookie(cartCookieName, "", -1, "/", "", false, true)
		}

		order, err := co.Checkout(res.Cart, userID)
		if err != nil {
			var insufficient *models.InsufficientStockError
			var gone *models.ProductGoneError
			switch {
			case errors.Is(err, models.ErrEmptyCart):
				// Not an error state; the frontend sends the buyer back to
				// the cart view.
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.Is(err, models.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			case errors.As(err, &insufficient):
				c.JSON(http.StatusConflict, gin.H{
					"error":      err.Error(),
					"product_id": insufficient.ProductID,
					"available":  insufficient.Available,
				})
			case errors.As(err, &gone):
				c.JSON(http.StatusConflict, gin.H{
					"error":      err.Error(),
					"product_id": gone.ProductID,
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}

		broadcastNewOrder(*order)
		c.JSON(http.StatusCreated, gin.H{
			"order_id": order.ID,
			"total":    order.TotalPrice,
			"status":   order.Status,
		})
	}
}

// GET /orders (signed-in user's own orders)
func GetMyOrdersHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, _ := userIDVal.(string)

		list, err := svc.ListByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /orders/:order_id
func GetOrderByIDHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseOrderID(c)
		if !ok {
			return
		}

		order, err := svc.Get(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		// Owners see their own orders; everyone else needs the admin key,
		// which routes through the admin group instead.
		if userIDVal, exists := c.Get("user_id"); exists {
			if userID, _ := userIDVal.(string); userID != order.UserID {
				c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
				return
			}
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:order_id/items
func EditOrderItemsHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseOrderID(c)
		if !ok {
			return
		}

		var req EditOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := svc.EditItems(orderID, req.Version, req.Status, req.Items)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrConflict):
				c.JSON(http.StatusConflict, gin.H{"error": "Order was modified by another edit, reload and retry"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /admin/orders/:order_id
func DeleteOrderHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseOrderID(c)
		if !ok {
			return
		}
		if err := svc.Delete(orderID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}

func parseOrderID(c *gin.Context) (uint, bool) {
	raw := c.Param("order_id")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
		return 0, false
	}
	return uint(id64), true
}
