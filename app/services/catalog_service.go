package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/cache"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/orm"
	"github.com/shashiranjanraj/kasir/pkg/storage"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

const (
	productImageDir = "products"

	categoriesNS = "kasir:categories"
	productsNS   = "kasir:products"
)

// ProductQuery filters and pages a product listing.
type ProductQuery struct {
	Query    string
	Category string
	Active   *bool
	Page     int
	PerPage  int
}

// ProductPage is one page of products.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	Pagination orm.Pagination   `json:"pagination"`
}

// MaxPrice caps a product's unit price in minor units, matching the
// ProductInput and ProductUpdate validation tags.
const MaxPrice = 1_000_000_000_000

// ProductInput creates a product. It binds from multipart form fields.
type ProductInput struct {
	Name        string `form:"name"        validate:"required,max=255"`
	Price       int64  `form:"price"       validate:"gte=0,lte=1000000000000"`
	Category    string `form:"category"    validate:"required,max=100"`
	Description string `form:"description" validate:"max=2000"`
}

// ProductUpdate changes the listed fields. Nil fields are left as they are.
type ProductUpdate struct {
	Name        *string `json:"name"        validate:"nullable,max=255"`
	Price       *int64  `json:"price"       validate:"nullable,gte=0,lte=1000000000000"`
	Category    *string `json:"category"    validate:"nullable,max=100"`
	Description *string `json:"description" validate:"nullable,max=2000"`
}

// CategoryInput names a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryRename renames a category.
type CategoryRename struct {
	NewName string `json:"newName" validate:"required,max=100"`
}

// CatalogService manages categories and products. Listings are cached and
// every write invalidates them.
type CatalogService struct {
	store repositories.Store
	disk  storage.Disk
	cache cache.Store
	ttl   time.Duration
}

func NewCatalogService(store repositories.Store, disk storage.Disk, c cache.Store, ttl time.Duration) *CatalogService {
	return &CatalogService{store: store, disk: disk, cache: c, ttl: ttl}
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	key := cache.Key(categoriesNS, s.cache.Version(ctx, categoriesNS), "all")

	var categories []models.Category
	err := orm.Remember(ctx, s.cache, key, s.ttl, &categories, func() (err error) {
		categories, err = s.store.Categories().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Category{}, errs
	}

	category := models.Category{Name: in.Name}
	if err := s.store.Categories().Create(ctx, &category); err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx, categoriesNS)
	return category, nil
}

// RenameCategory renames the category and relabels its products atomically.
func (s *CatalogService) RenameCategory(ctx context.Context, id uint, in CategoryRename) (models.Category, error) {
	in.NewName = strings.TrimSpace(in.NewName)
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Category{}, errs
	}

	var category models.Category
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		category, err = tx.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if category.Name == in.NewName {
			return nil
		}
		if err := tx.Categories().Rename(ctx, id, in.NewName); err != nil {
			return err
		}
		if err := tx.Products().Relabel(ctx, category.Name, in.NewName); err != nil {
			return err
		}
		category.Name = in.NewName
		return nil
	})
	if err != nil {
		return models.Category{}, fmt.Errorf("rename category: %w", err)
	}

	s.invalidate(ctx, categoriesNS, productsNS)
	return category, nil
}

// DeleteCategory removes a category that no product uses.
func (s *CatalogService) DeleteCategory(ctx context.Context, name string) error {
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		category, err := tx.Categories().FindByName(ctx, name)
		if err != nil {
			return err
		}
		n, err := tx.Products().CountInCategory(ctx, category.Name)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrCategoryInUse
		}
		return tx.Categories().Delete(ctx, category.ID)
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx, categoriesNS)
	return nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (ProductPage, error) {
	filter := repositories.ProductFilter{
		Query:    strings.TrimSpace(q.Query),
		Category: strings.TrimSpace(q.Category),
		Active:   q.Active,
		Page:     orm.NewPagination(q.Page, q.PerPage),
	}

	active := "any"
	if filter.Active != nil {
		active = strconv.FormatBool(*filter.Active)
	}
	key := cache.Key(productsNS, s.cache.Version(ctx, productsNS),
		"q="+strings.ToLower(filter.Query), "c="+filter.Category, "a="+active,
		"p="+strconv.Itoa(filter.Page.Page), "n="+strconv.Itoa(filter.Page.PerPage))

	var page ProductPage
	err := orm.Remember(ctx, s.cache, key, s.ttl, &page, func() error {
		items, p, err := s.store.Products().List(ctx, filter)
		if err != nil {
			return err
		}
		page = ProductPage{Items: s.withURLs(items), Pagination: p}
		return nil
	})
	if err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}
	return s.withURL(p), nil
}

// CreateProduct stores the optional image and inserts the product. The
// image is removed again when the insert fails.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, image *storage.Upload) (models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, errs
	}

	product := models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}

	if image != nil {
		product.Image = storage.NewName(productImageDir, image.Filename)
		if err := s.disk.Put(ctx, product.Image, image.Body, image.ContentType); err != nil {
			return models.Product{}, fmt.Errorf("create product: %w", err)
		}
	}

	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if err := s.requireCategory(ctx, tx, product.Category); err != nil {
			return err
		}
		return tx.Products().Create(ctx, &product)
	})
	if err != nil {
		s.discard(ctx, product.Image)
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.invalidate(ctx, productsNS)
	return s.withURL(product), nil
}

// UpdateProduct applies in. Once an order references the product its name,
// price and category are frozen and ErrProductLocked is returned.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductUpdate) (models.Product, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, errs
	}

	var product models.Product
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		product, err = tx.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}

		frozen := (in.Name != nil && strings.TrimSpace(*in.Name) != product.Name) ||
			(in.Price != nil && *in.Price != product.Price) ||
			(in.Category != nil && strings.TrimSpace(*in.Category) != product.Category)
		if frozen {
			used, err := tx.Products().Referenced(ctx, id)
			if err != nil {
				return err
			}
			if used {
				return ErrProductLocked
			}
		}

		if in.Name != nil {
			if name := strings.TrimSpace(*in.Name); name != "" {
				product.Name = name
			}
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Category != nil {
			category := strings.TrimSpace(*in.Category)
			if category != product.Category {
				if err := s.requireCategory(ctx, tx, category); err != nil {
					return err
				}
				product.Category = category
			}
		}
		if in.Description != nil {
			product.Description = strings.TrimSpace(*in.Description)
		}
		return tx.Products().Update(ctx, &product)
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.invalidate(ctx, productsNS)
	return s.withURL(product), nil
}

// SetProductActive shows or hides a product at the till. Always allowed.
func (s *CatalogService) SetProductActive(ctx context.Context, id uint, active bool) (models.Product, error) {
	products := s.store.Products()
	if err := products.SetActive(ctx, id, active); err != nil {
		return models.Product{}, fmt.Errorf("toggle product: %w", err)
	}
	s.invalidate(ctx, productsNS)
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product no order references, and its image.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	var image string
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		product, err := tx.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		used, err := tx.Products().Referenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return ErrProductLocked
		}
		image = product.Image
		return tx.Products().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.discard(ctx, image)
	s.invalidate(ctx, productsNS)
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, tx repositories.Store, name string) error {
	_, err := tx.Categories().FindByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return err
}

func (s *CatalogService) withURL(p models.Product) models.Product {
	if p.Image != "" {
		p.ImageURL = s.disk.URL(p.Image)
	}
	return p
}

func (s *CatalogService) withURLs(items []models.Product) []models.Product {
	for i := range items {
		items[i] = s.withURL(items[i])
	}
	return items
}

func (s *CatalogService) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.disk.Delete(context.WithoutCancel(ctx), path); err != nil {
		logger.WithCtx(ctx).Error("catalog: orphaned image", "path", path, "error", err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, namespaces ...string) {
	for _, ns := range namespaces {
		if err := s.cache.Bump(ctx, ns); err != nil {
			logger.WithCtx(ctx).Warn("cache: invalidate failed", "namespace", ns, "error", err)
		}
	}
}
