package models

import "time"

type Category string

const (
	CategoryRO          Category = "ro"
	CategoryUV          Category = "uv"
	CategoryUF          Category = "uf"
	CategoryGravity     Category = "gravity"
	CategoryCommercial  Category = "commercial"
	CategoryAccessories Category = "accessories"
)

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryRO, CategoryUV, CategoryUF, CategoryGravity, CategoryCommercial, CategoryAccessories:
		return true
	}
	return false
}

type Product struct {
	ID             uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	Slug           string            `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string            `gorm:"not null" json:"description"`
	Price          float64           `gorm:"not null" json:"price"`
	OriginalPrice  float64           `json:"original_price,omitempty"`
	Category       Category          `gorm:"type:VARCHAR(20);not null;index" json:"category"`
	Images         []string          `gorm:"serializer:json" json:"images"`
	Features       []string          `gorm:"serializer:json" json:"features"`
	Specifications map[string]string `gorm:"serializer:json" json:"specifications"`
	Stock          int               `gorm:"default:0" json:"stock"`
	Rating         float64           `gorm:"default:0" json:"rating"`       // derived from approved reviews
	ReviewCount    int               `gorm:"default:0" json:"review_count"` // derived from approved reviews
	IsActive       bool              `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
