// Package migrations registers the kasir schema. Importing it (for side
// effects) makes every migration known to pkg/migration.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_accounts_table", &CreateAccountsTable{})
	migration.Register("20260101000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260101000002_create_transaction_tables", &CreateTransactionTables{})
}

// -------- 0001: accounts --------

type CreateAccountsTable struct{}

func (m *CreateAccountsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Account{})
}

func (m *CreateAccountsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Account{})
}

// -------- 0002: categories, products --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{}, &models.Category{})
}

// -------- 0003: transactions, transaction_items --------

type CreateTransactionTables struct{}

func (m *CreateTransactionTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{}, &models.TransactionItem{})
}

func (m *CreateTransactionTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.TransactionItem{}, &models.Transaction{})
}
