package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/models"
	"gorm.io/gorm"
)

// DELETE /admin/products/:id
//
// Deletion is restricted while any cart still holds the product. Order items
// survive through their denormalized snapshot; the DB sets their product
// reference to NULL.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var inCarts int64
			if err := tx.Model(&models.CartItem{}).
				Where("product_id = ?", product.ID).
				Count(&inCarts).Error; err != nil {
				return err
			}
			if inCarts > 0 {
				return errConflictingCarts
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			if errors.Is(err, errConflictingCarts) {
				c.JSON(http.StatusConflict, gin.H{"error": "Product is still in shopping carts"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

var errConflictingCarts = errors.New("product referenced by cart items")
