package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/testkit"
)

type fixture struct {
	db    *gorm.DB
	store *repositories.GormStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testkit.DB(t)
	return &fixture{db: db, store: repositories.NewGormStore(db)}
}

func (f *fixture) account(t *testing.T, username, password, role string) models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	a := models.Account{
		FirstName: username,
		LastName:  "Tester",
		Email:     username + "@kasir.test",
		Username:  username,
		Password:  hash,
		Role:      role,
	}
	require.NoError(t, f.db.Create(&a).Error)
	return a
}

func (f *fixture) category(t *testing.T, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) product(t *testing.T, name string, price int64, category string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Category: category, IsActive: true}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
