package productControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"gorm.io/gorm"
)

type UpdateProductRequest struct {
	Name           *string            `json:"name"`
	Slug           *string            `json:"slug"`
	Description    *string            `json:"description"`
	Price          *float64           `json:"price"`
	OriginalPrice  *float64           `json:"original_price"`
	Category       *string            `json:"category"`
	Images         *[]string          `json:"images"`
	Features       *[]string          `json:"features"`
	Specifications *map[string]string `json:"specifications"`
	Stock          *int               `json:"stock"`
	IsActive       *bool              `json:"is_active"`
}

// PUT /products/:id (admin)
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Slug != nil {
			product.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			if *req.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
				return
			}
			product.Price = *req.Price
		}
		if req.OriginalPrice != nil {
			if *req.OriginalPrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Original price cannot be negative"})
				return
			}
			product.OriginalPrice = *req.OriginalPrice
		}
		if req.Category != nil {
			category := models.Category(strings.ToLower(*req.Category))
			if !models.ValidCategory(category) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
				return
			}
			product.Category = category
		}
		if req.Images != nil {
			product.Images = *req.Images
		}
		if req.Features != nil {
			product.Features = *req.Features
		}
		if req.Specifications != nil {
			product.Specifications = *req.Specifications
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
				return
			}
			product.Stock = *req.Stock
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Product updated successfully",
			"product": product,
		})
	}
}
