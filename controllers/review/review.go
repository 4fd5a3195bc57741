package reviewControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shaddy-pv/AquaPurifier/models"
	"gorm.io/gorm"
)

type CreateReviewRequest struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Title     string   `json:"title" binding:"required,max=100"`
	Comment   string   `json:"comment" binding:"required,max=1000"`
	Images    []string `json:"images"`
}

type UpdateReviewRequest struct {
	Rating  *int      `json:"rating"`
	Title   *string   `json:"title"`
	Comment *string   `json:"comment"`
	Images  *[]string `json:"images"`
}

// recomputeProductRating rewrites a product's aggregate rating and review
// count from its approved reviews: mean rounded to one decimal, zero when
// no approved review remains.
func recomputeProductRating(db *gorm.DB, productID uint) error {
	var stats struct {
		Count int64
		Avg   float64
	}
	err := db.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("product_id = ? AND status = ?", productID, models.ReviewStatusApproved).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	rating := math.Round(stats.Avg*10) / 10
	if stats.Count == 0 {
		rating = 0
	}

	return db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": stats.Count,
		}).Error
}

// hasPurchased reports whether the user has an order containing the product
// that reached confirmed or delivered status.
func hasPurchased(db *gorm.DB, userID string, productID uint) bool {
	var count int64
	db.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status IN ?",
			userID, productID, []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusDelivered}).
		Count(&count)
	return count > 0
}

func parsePagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func paginationEnvelope(page, limit int, total int64) gin.H {
	return gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": int(math.Ceil(float64(total) / float64(limit))),
	}
}

// GET /reviews/product/:productID — public, approved reviews only.
func GetProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("productID")
		sort := c.DefaultQuery("sort", "-created_at")
		page, limit := parsePagination(c, 10)

		var orderClause string
		switch sort {
		case "rating-high":
			orderClause = "rating DESC"
		case "rating-low":
			orderClause = "rating ASC"
		case "helpful":
			orderClause = "helpful DESC"
		default:
			orderClause = "created_at DESC"
		}

		query := db.Model(&models.Review{}).
			Where("product_id = ? AND status = ?", productID, models.ReviewStatusApproved)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews", "error": err.Error()})
			return
		}

		var reviews []models.Review
		if err := query.
			Preload("User").
			Order(orderClause).
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews":    reviews,
			"pagination": paginationEnvelope(page, limit, total),
		})
	}
}

// POST /reviews
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var existing models.Review
		if err := db.Where("product_id = ? AND user_id = ?", req.ProductID, userID).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this product"})
			return
		}

		review := models.Review{
			ProductID: req.ProductID,
			UserID:    userID,
			Rating:    req.Rating,
			Title:     req.Title,
			Comment:   req.Comment,
			Images:    req.Images,
			Verified:  hasPurchased(db, userID, req.ProductID),
			Status:    models.ReviewStatusPending,
		}

		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create review", "error": err.Error()})
			return
		}

		if err := recomputeProductRating(db, req.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product rating", "error": err.Error()})
			return
		}

		db.Preload("User").First(&review, review.ID)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Review submitted successfully. It will be visible after approval.",
			"review":  review,
		})
	}
}

// PUT /reviews/:id — owner only; editing sends the review back to moderation.
func UpdateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}

		if review.UserID != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		var req UpdateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Rating != nil {
			if *req.Rating < 1 || *req.Rating > 5 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
				return
			}
			review.Rating = *req.Rating
		}
		if req.Title != nil {
			review.Title = *req.Title
		}
		if req.Comment != nil {
			review.Comment = *req.Comment
		}
		if req.Images != nil {
			review.Images = *req.Images
		}
		review.Status = models.ReviewStatusPending

		if err := db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update review", "error": err.Error()})
			return
		}

		if err := recomputeProductRating(db, review.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product rating", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Review updated successfully",
			"review":  review,
		})
	}
}

// DELETE /reviews/:id — owner or admin.
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}

		if review.UserID != c.GetString("user_id") && c.GetString("role") != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		if err := db.Delete(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete review", "error": err.Error()})
			return
		}

		if err := recomputeProductRating(db, review.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product rating", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
	}
}

// POST /reviews/:id/helpful
func MarkHelpfulHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch review", "error": err.Error()})
			return
		}

		if err := db.Model(&review).UpdateColumn("helpful", gorm.Expr("helpful + 1")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to mark review as helpful", "error": err.Error()})
			return
		}

		// Reload so the response carries the incremented count.
		if err := db.First(&review, review.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch review", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Marked as helpful", "review": review})
	}
}

// GET /reviews (admin)
func GetAllReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		page, limit := parsePagination(c, 20)

		query := db.Model(&models.Review{})
		if status != "" && status != "all" {
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews", "error": err.Error()})
			return
		}

		var reviews []models.Review
		if err := query.
			Preload("User").
			Preload("Product").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews":    reviews,
			"pagination": paginationEnvelope(page, limit, total),
		})
	}
}

// PATCH /reviews/:id/approve (admin)
func ApproveReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return moderateReview(db, models.ReviewStatusApproved, "Review approved successfully")
}

// PATCH /reviews/:id/reject (admin)
func RejectReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return moderateReview(db, models.ReviewStatusRejected, "Review rejected successfully")
}

func moderateReview(db *gorm.DB, status models.ReviewStatus, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}

		if err := db.Model(&review).Update("status", status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update review", "error": err.Error()})
			return
		}

		// Moderation in either direction can change the approved set.
		if err := recomputeProductRating(db, review.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product rating", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": message, "review": review})
	}
}
