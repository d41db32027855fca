// Package migration runs and tracks schema migrations in batches.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_accounts_table", &CreateAccountsTable{})
//	}
//
// and are applied from the CLI:
//
//	kasir migrate             // run all pending as one batch
//	kasir migrate:rollback    // roll back the last batch
//	kasir migrate:status
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry pairs a migration with its timestamp-prefixed name.
type Entry struct {
	Name      string
	Migration Migration
}

// Status describes one known migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "kasir_migrations" }

// ErrNotRegistered is returned when the tracking table names a migration
// this binary does not know.
var ErrNotRegistered = errors.New("migration: not registered")

var (
	mu       sync.Mutex
	registry []Entry
)

// Register adds a migration to the global registry.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns the registered migrations sorted by name.
func Registered() []Entry {
	mu.Lock()
	out := append([]Entry(nil), registry...)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
}

// New creates a Runner over every registered migration.
func New(db *gorm.DB) *Runner {
	return NewWith(db, Registered())
}

// NewWith creates a Runner over an explicit migration list.
func NewWith(db *gorm.DB, entries []Entry) *Runner {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

// Run applies every pending migration as one new batch and returns the
// names it applied.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)

	var ran []record
	if err := db.Find(&ran).Error; err != nil {
		return nil, fmt.Errorf("migration: fetch ran: %w", err)
	}
	done := make(map[string]bool, len(ran))
	for _, rec := range ran {
		done[rec.Name] = true
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, err
	}
	batch++

	var applied []string
	for _, e := range r.entries {
		if done[e.Name] {
			continue
		}
		logger.Info("migration: running", "name", e.Name, "batch", batch)

		if err := e.Migration.Up(db); err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := db.Create(&record{Name: e.Name, Batch: batch}).Error; err != nil {
			return applied, fmt.Errorf("migration: record %s: %w", e.Name, err)
		}
		applied = append(applied, e.Name)
	}

	return applied, nil
}

// Rollback reverses the most recent batch and returns the names it undid.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)

	batch, err := r.lastBatch(ctx)
	if err != nil || batch == 0 {
		return nil, err
	}

	var records []record
	if err := db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("migration: fetch batch %d: %w", batch, err)
	}

	known := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		known[e.Name] = e.Migration
	}

	var undone []string
	for _, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return undone, fmt.Errorf("%w: %s", ErrNotRegistered, rec.Name)
		}
		logger.Info("migration: rolling back", "name", rec.Name, "batch", batch)

		if err := m.Down(db); err != nil {
			return undone, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := db.Delete(&rec).Error; err != nil {
			return undone, fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}
		undone = append(undone, rec.Name)
	}
	return undone, nil
}

// Status reports every known migration and whether it has run.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	var ran []record
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, fmt.Errorf("migration: fetch ran: %w", err)
	}
	byName := make(map[string]record, len(ran))
	for _, rec := range ran {
		byName[rec.Name] = rec
	}

	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		rec, ok := byName[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var last struct{ Max int }
	err := r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return last.Max, nil
}
