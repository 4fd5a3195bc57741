package models

import "time"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Review holds one customer review per (product, user) pair. Only approved
// reviews count towards Product.Rating and Product.ReviewCount.
type Review struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProductID uint         `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	Product   Product      `gorm:"foreignKey:ProductID" json:"product"`
	UserID    string       `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	User      User         `gorm:"foreignKey:UserID" json:"user"`
	Rating    int          `gorm:"not null" json:"rating"`
	Title     string       `gorm:"size:100;not null" json:"title"`
	Comment   string       `gorm:"size:1000;not null" json:"comment"`
	Images    []string     `gorm:"serializer:json" json:"images"`
	Verified  bool         `gorm:"default:false" json:"verified"`
	Helpful   int          `gorm:"default:0" json:"helpful"`
	Status    ReviewStatus `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
