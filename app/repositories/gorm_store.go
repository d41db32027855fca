package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/pkg/orm"
)

// GormStore implements Store on gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Accounts() AccountRepository         { return &accountRepo{db: s.db} }
func (s *GormStore) Categories() CategoryRepository      { return &categoryRepo{db: s.db} }
func (s *GormStore) Products() ProductRepository         { return &productRepo{db: s.db} }
func (s *GormStore) Transactions() TransactionRepository { return &transactionRepo{db: s.db} }

func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps driver errors onto the package sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case orm.IsNotFound(err):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case orm.IsDuplicate(err):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
