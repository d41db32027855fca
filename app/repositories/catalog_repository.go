package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/pkg/orm"
)

type categoryRepo struct {
	db *gorm.DB
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, translate(err, "list categories")
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	return category, translate(err, "find category")
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	return category, translate(err, "find category")
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "create category")
}

func (r *categoryRepo) Rename(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	return affected(res, "rename category")
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Category{}, id), "delete category")
}

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	return product, translate(err, "find product")
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, translate(err, "find products")
}

func (r *productRepo) List(ctx context.Context, f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var products []models.Product
	page, err := orm.Paginate(q, "name, id", f.Page, &products)
	return products, page, translate(err, "list products")
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error, "create product")
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "price", "category", "description", "image", "updated_at").
		Updates(product)
	return affected(res, "update product")
}

func (r *productRepo) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", active)
	return affected(res, "toggle product")
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Product{}, id), "delete product")
}

func (r *productRepo) Referenced(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.TransactionItem{}).
		Where("product_id = ?", id).
		Limit(1).
		Count(&n).Error
	return n > 0, translate(err, "check product usage")
}

func (r *productRepo) CountInCategory(ctx context.Context, category string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category = ?", category).Count(&n).Error
	return n, translate(err, "count products")
}

func (r *productRepo) Relabel(ctx context.Context, from, to string) error {
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category = ?", from).
		Update("category", to).Error
	return translate(err, "relabel products")
}
