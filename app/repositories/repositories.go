// Package repositories persists the POS records. Services depend on the
// interfaces here; the gorm implementation is the only one shipped.
package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/pkg/orm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type AccountRepository interface {
	// FindByIdentity matches identity against email or username.
	FindByIdentity(ctx context.Context, identity string) (models.Account, error)
	FindByID(ctx context.Context, id uint) (models.Account, error)
	// Lock is FindByID holding a row lock until the surrounding
	// transaction ends. Dialects without row locks ignore it.
	Lock(ctx context.Context, id uint) (models.Account, error)
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdatePhoto(ctx context.Context, id uint, path string) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uint) (models.Category, error)
	FindByName(ctx context.Context, name string) (models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	Query    string
	Category string
	Active   *bool
	Page     orm.Pagination
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (models.Product, error)
	// FindByIDs returns the products among ids that exist, in no order.
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, orm.Pagination, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	// Referenced reports whether any order line points at the product.
	Referenced(ctx context.Context, id uint) (bool, error)
	CountInCategory(ctx context.Context, category string) (int64, error)
	Relabel(ctx context.Context, from, to string) error
}

type TransactionRepository interface {
	// Create inserts the header and then its items in one batch.
	Create(ctx context.Context, tx *models.Transaction) error
	// List returns orders newest first with items and products loaded.
	// A nil accountID lists every account's orders.
	List(ctx context.Context, accountID *uint) ([]models.Transaction, error)
}

// Store hands out repositories bound to one database handle.
type Store interface {
	Accounts() AccountRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Transactions() TransactionRepository

	// Atomic runs fn with a Store bound to a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Atomic(ctx context.Context, fn func(Store) error) error
}
