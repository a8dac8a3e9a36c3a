package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/config"
	orderControllers "github.com/natalia-kut/OnlineShop/controllers/order"
	productControllers "github.com/natalia-kut/OnlineShop/controllers/product"
	"github.com/natalia-kut/OnlineShop/middleware"
	"github.com/natalia-kut/OnlineShop/services/orders"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers the back-office endpoints. API-key protected.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, orderStore *orders.Service) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(cfg.AdminAPIKey))
	{
		// ──────────────── Product management ────────────────
		adminGroup.POST("/products", productControllers.CreateProduct(db, cfg.PriceRule))
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(db, cfg.PriceRule))
		adminGroup.POST("/products/:id/restock", productControllers.RestockProduct(db))
		adminGroup.DELETE("/products/:id", productControllers.DeleteProduct(db))

		// ──────────────── Order management ────────────────
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(orderStore))
		adminGroup.GET("/orders/export", orderControllers.ExportOrdersToExcel(orderStore))
		adminGroup.GET("/orders/feed", orderControllers.OrderFeedHandler)
		adminGroup.GET("/orders/:order_id", orderControllers.GetOrderByIDHandler(orderStore))
		adminGroup.PUT("/orders/:order_id/items", orderControllers.EditOrderItemsHandler(orderStore))
		adminGroup.DELETE("/orders/:order_id", orderControllers.DeleteOrderHandler(orderStore))
	}
}
