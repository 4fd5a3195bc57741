package productControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required"`
	Slug           string            `json:"slug" binding:"required"`
	Description    string            `json:"description" binding:"required"`
	Price          float64           `json:"price" binding:"required,gte=0"`
	OriginalPrice  float64           `json:"original_price" binding:"gte=0"`
	Category       string            `json:"category" binding:"required"`
	Images         []string          `json:"images"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Stock          int               `json:"stock" binding:"gte=0"`
}

// POST /products (admin)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		category := models.Category(strings.ToLower(req.Category))
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}

		product := models.Product{
			Name:           req.Name,
			Slug:           strings.ToLower(strings.TrimSpace(req.Slug)),
			Description:    req.Description,
			Price:          req.Price,
			OriginalPrice:  req.OriginalPrice,
			Category:       category,
			Images:         req.Images,
			Features:       req.Features,
			Specifications: req.Specifications,
			Stock:          req.Stock,
			IsActive:       true,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Product created successfully",
			"product": product,
		})
	}
}
