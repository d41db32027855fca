package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// Manager holds the configured disks and knows which one is the default.
type Manager struct {
	disks       map[string]Disk
	defaultDisk string
	local       *LocalDisk
}

// NewManager boots the local disk and, when S3_BUCKET is set, the s3 disk.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	local, err := NewLocalDisk(cfg.StorageLocalRoot, cfg.StorageURL)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		disks:       map[string]Disk{"local": local},
		defaultDisk: cfg.StorageDisk,
		local:       local,
	}

	if cfg.S3.Bucket != "" {
		d, err := NewS3Disk(ctx, cfg.S3)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.defaultDisk)
	}
	return m, nil
}

// NewManagerWith wraps a single disk as the default. Used by tests and tools.
func NewManagerWith(name string, d Disk) *Manager {
	m := &Manager{disks: map[string]Disk{name: d}, defaultDisk: name}
	if l, ok := d.(*LocalDisk); ok {
		m.local = l
	}
	return m
}

// Disk returns the named disk.
func (m *Manager) Disk(name string) (Disk, error) {
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func (m *Manager) Default() Disk {
	return m.disks[m.defaultDisk]
}

// Local returns the local disk, or nil when the manager has none.
func (m *Manager) Local() *LocalDisk {
	return m.local
}
