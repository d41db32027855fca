// Package orm holds small helpers shared by the gorm repositories:
// pagination, read-through caching and driver-neutral error checks.
package orm

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/pkg/cache"
	"github.com/shashiranjanraj/kasir/pkg/logger"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination clamps page and perPage to sane bounds.
func NewPagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// Paginate counts the rows matched by q and loads the requested page, sorted
// by order, into dest. q must carry its Model and filters but no ordering.
func Paginate(q *gorm.DB, order string, p Pagination, dest interface{}) (Pagination, error) {
	if err := q.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.TotalPages = int(math.Ceil(float64(p.Total) / float64(p.PerPage)))

	err := q.Session(&gorm.Session{}).
		Order(order).
		Offset((p.Page - 1) * p.PerPage).
		Limit(p.PerPage).
		Find(dest).Error
	return p, err
}

// Remember returns the cached value under key, or runs load and caches its
// result for ttl. Cache write failures are logged and otherwise ignored.
func Remember(ctx context.Context, store cache.Store, key string, ttl time.Duration, dest interface{}, load func() error) error {
	if store.Get(ctx, key, dest) {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	if err := store.Set(ctx, key, dest, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return nil
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation on any
// supported driver.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"unique constraint failed", // sqlite
		"duplicate key value",      // postgres
		"duplicate entry",          // mysql
		"cannot insert duplicate",  // sqlserver
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
