package orm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/pkg/cache"
	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/orm"
)

type item struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func TestPaginate(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&item{}))
	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&item{Name: fmt.Sprintf("item-%d", i)}).Error)
	}

	var page []item
	p, err := orm.Paginate(db.Model(&item{}), "id", orm.NewPagination(2, 3), &page)
	require.NoError(t, err)

	assert.Equal(t, orm.Pagination{Page: 2, PerPage: 3, Total: 7, TotalPages: 3}, p)
	require.Len(t, page, 3)
	assert.Equal(t, "item-3", page[0].Name)
}

func TestNewPaginationClamps(t *testing.T) {
	assert.Equal(t, orm.Pagination{Page: 1, PerPage: orm.DefaultPerPage}, orm.NewPagination(0, 0))
	assert.Equal(t, orm.MaxPerPage, orm.NewPagination(1, 5000).PerPage)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	calls := 0
	load := func(dest *[]string) func() error {
		return func() error {
			calls++
			*dest = []string{"tea", "coffee"}
			return nil
		}
	}

	var first, second []string
	require.NoError(t, orm.Remember(ctx, store, "k", time.Minute, &first, load(&first)))
	require.NoError(t, orm.Remember(ctx, store, "k", time.Minute, &second, load(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	boom := errors.New("boom")
	var third []string
	err := orm.Remember(ctx, store, "other", time.Minute, &third, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestErrorClassifiers(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&item{}))
	require.NoError(t, db.Create(&item{Name: "dup"}).Error)

	err = db.Create(&item{Name: "dup"}).Error
	assert.True(t, orm.IsDuplicate(err))

	err = db.Where("name = ?", "missing").First(&item{}).Error
	assert.True(t, orm.IsNotFound(err))
	assert.False(t, orm.IsDuplicate(nil))
	assert.False(t, orm.IsNotFound(gorm.ErrInvalidData))
}
