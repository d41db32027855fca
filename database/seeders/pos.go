package seeders

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/pkg/auth"
)

// DefaultAdminPassword is the password of the seeded admin account.
const DefaultAdminPassword = "admin12345"

func init() {
	Register("admin_account", SeedAdmin)
	Register("catalog", SeedCatalog)
}

// SeedAdmin creates the "admin" account unless it already exists.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	var existing models.Account
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}
	return db.Create(&models.Account{
		FirstName: "Store",
		LastName:  "Admin",
		Email:     "admin@kasir.local",
		Username:  "admin",
		Password:  hash,
		Role:      models.RoleAdmin,
	}).Error
}

var sampleCategories = []string{"Food", "Drinks", "Snacks"}

var sampleProducts = []models.Product{
	{Name: "Nasi Goreng", Price: 25000, Category: "Food", Description: "Fried rice with egg"},
	{Name: "Mie Ayam", Price: 20000, Category: "Food", Description: "Chicken noodles"},
	{Name: "Es Teh", Price: 5000, Category: "Drinks", Description: "Iced sweet tea"},
	{Name: "Kopi Susu", Price: 15000, Category: "Drinks", Description: "Milk coffee"},
	{Name: "Keripik Singkong", Price: 8000, Category: "Snacks", Description: "Cassava chips"},
}

// SeedCatalog inserts the sample categories and products once.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range sampleCategories {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Category{Name: name}).Error
			if err != nil {
				return err
			}
		}

		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		products := make([]models.Product, len(sampleProducts))
		for i, p := range sampleProducts {
			p.IsActive = true
			products[i] = p
		}
		return tx.Create(&products).Error
	})
}
