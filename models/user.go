package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Phone      string    `json:"phone,omitempty"`
	Role       Role      `gorm:"type:VARCHAR(20);default:'customer'" json:"role"`
	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	Addresses  []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Address is a saved shipping address on a user profile.
type Address struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    string `gorm:"index" json:"-"`
	Label     string `gorm:"default:'home'" json:"label"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`
}
