package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/config"
	cartControllers "github.com/natalia-kut/OnlineShop/controllers/cart"
	orderControllers "github.com/natalia-kut/OnlineShop/controllers/order"
	productControllers "github.com/natalia-kut/OnlineShop/controllers/product"
	"github.com/natalia-kut/OnlineShop/middleware"
	"github.com/natalia-kut/OnlineShop/services/cart"
	"github.com/natalia-kut/OnlineShop/services/checkout"
	"github.com/natalia-kut/OnlineShop/services/orders"
	"gorm.io/gorm"
)

// SetupStoreRoutes registers the shopper-facing endpoints. Cart routes work
// for anonymous and signed-in callers alike, so they use the optional token
// middleware; checkout and order history require a signed-in user.
func SetupStoreRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, carts *cart.Service, checkouts *checkout.Service, orderStore *orders.Service) {
	// ──────────────── Catalog browsing ────────────────
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))

	// ──────────────── Shopping cart ────────────────
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.OptionalToken(cfg.JWTSecret))
	{
		cartGroup.GET("/", cartControllers.GetCart(carts))                       // GET /cart
		cartGroup.POST("/items", cartControllers.AddItem(carts))                 // POST /cart/items
		cartGroup.DELETE("/items/:item_id", cartControllers.RemoveItem(carts))   // DELETE /cart/items/:item_id
		cartGroup.DELETE("/", cartControllers.ClearCart(carts))                  // DELETE /cart
	}
	r.POST("/cart/checkout", middleware.ValidateToken(cfg.JWTSecret), orderControllers.CheckoutHandler(carts, checkouts))

	// ──────────────── Order history ────────────────
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		orderGroup.GET("/", orderControllers.GetMyOrdersHandler(orderStore))          // GET /orders
		orderGroup.GET("/:order_id", orderControllers.GetOrderByIDHandler(orderStore)) // GET /orders/:order_id
	}
}
