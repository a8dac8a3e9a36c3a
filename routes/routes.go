package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/config"
	"github.com/natalia-kut/OnlineShop/services/cart"
	"github.com/natalia-kut/OnlineShop/services/checkout"
	"github.com/natalia-kut/OnlineShop/services/orders"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up the storefront, order
// and admin route groups around the shared service instances.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	carts := cart.NewService(db)
	checkouts := checkout.NewService(db, carts)
	orderStore := orders.NewService(db)

	SetupStoreRoutes(r, db, cfg, carts, checkouts, orderStore)
	SetupAdminRoutes(r, db, cfg, orderStore)
}
