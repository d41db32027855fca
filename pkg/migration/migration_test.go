package migration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type addWidgetIndex struct{}

func (addWidgetIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_widgets_name ON widgets(name)").Error
}
func (addWidgetIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_widgets_name").Error
}

func TestRunRollbackStatus(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()

	first := migration.NewWith(db, []migration.Entry{
		{Name: "0001_create_widgets", Migration: createWidgets{}},
	})
	applied, err := first.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_widgets"}, applied)

	both := migration.NewWith(db, []migration.Entry{
		{Name: "0002_add_widget_index", Migration: addWidgetIndex{}},
		{Name: "0001_create_widgets", Migration: createWidgets{}},
	})
	applied, err = both.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_add_widget_index"}, applied)

	status, err := both.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []migration.Status{
		{Name: "0001_create_widgets", Ran: true, Batch: 1},
		{Name: "0002_add_widget_index", Ran: true, Batch: 2},
	}, status)

	undone, err := both.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_add_widget_index"}, undone)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	undone, err = both.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_widgets"}, undone)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	undone, err = both.Rollback(ctx)
	require.NoError(t, err)
	assert.Empty(t, undone)
}

func TestRollbackUnknownMigration(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = migration.NewWith(db, []migration.Entry{{Name: "0001_create_widgets", Migration: createWidgets{}}}).Run(ctx)
	require.NoError(t, err)

	_, err = migration.NewWith(db, nil).Rollback(ctx)
	assert.ErrorIs(t, err, migration.ErrNotRegistered)
}
