package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"gorm.io/gorm"
)

// GET /products/:slug
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		var product models.Product
		if err := db.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
