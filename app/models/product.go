package models

import "time"

// Category groups products on the till screen.
type Category struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product is a sellable catalog item. Price is in minor currency units.
type Product struct {
	ID          uint      `gorm:"primaryKey"              json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Price       int64     `gorm:"not null;default:0"      json:"price"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Description string    `gorm:"type:text"               json:"description"`
	Image       string    `gorm:"size:255"                json:"-"` // disk path
	ImageURL    string    `gorm:"-"                       json:"image,omitempty"`
	IsActive    bool      `gorm:"not null;default:true"   json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
