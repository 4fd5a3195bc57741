package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"gorm.io/gorm"
)

type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// PATCH /products/:id/stock (admin)
func UpdateStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil || *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock value"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if err := db.Model(&product).Update("stock", *req.Stock).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Stock updated successfully",
			"product": product,
		})
	}
}
