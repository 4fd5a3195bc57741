package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"gorm.io/gorm"
)

// DELETE /products/:id (admin)
// Products are soft-deleted: existing orders keep their snapshots and the
// row stays for reporting, it just disappears from the storefront.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if err := db.Model(&product).Update("is_active", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
