package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/kasir/app/models"
)

type accountRepo struct {
	db *gorm.DB
}

func (r *accountRepo) FindByIdentity(ctx context.Context, identity string) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", identity, identity).
		Order("id").
		First(&account).Error
	return account, translate(err, "find account")
}

func (r *accountRepo) FindByID(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	return account, translate(err, "find account")
}

func (r *accountRepo) Lock(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, id).Error
	return account, translate(err, "lock account")
}

func (r *accountRepo) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	return account, translate(err, "find account")
}

func (r *accountRepo) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Order("id").Find(&accounts).Error
	return accounts, translate(err, "list accounts")
}

func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Create(account).Error, "create account")
}

func (r *accountRepo) UpdatePhoto(ctx context.Context, id uint, path string) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("photo", path)
	return affected(res, "update photo")
}
