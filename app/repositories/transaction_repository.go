package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/kasir/app/models"
)

const itemBatchSize = 100

type transactionRepo struct {
	db *gorm.DB
}

func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(tx).Error; err != nil {
		return translate(err, "create transaction")
	}
	if len(tx.Items) == 0 {
		return nil
	}

	for i := range tx.Items {
		tx.Items[i].TransactionID = tx.ID
	}
	err := db.Omit(clause.Associations).CreateInBatches(&tx.Items, itemBatchSize).Error
	return translate(err, "create transaction items")
}

func (r *transactionRepo) List(ctx context.Context, accountID *uint) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Preload("Account").
		Order("created_at DESC, id DESC")
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}

	var orders []models.Transaction
	err := q.Find(&orders).Error
	return orders, translate(err, "list transactions")
}
