// Package storage abstracts where uploaded images live.
//
// Two drivers exist:
//   - "local": a directory served under /public
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Records keep the disk-relative path of a file (e.g. "avatars/3f9c.png");
// the public URL is derived from the disk when rendering.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNotExist is returned when a path has no stored file.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes everything read from r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

// NewName returns a collision-free path inside dir that keeps the
// extension of the uploaded file name.
func NewName(dir, original string) string {
	var b [12]byte
	_, _ = rand.Read(b[:])

	ext := strings.ToLower(path.Ext(strings.ReplaceAll(original, "\\", "/")))
	if len(ext) > 8 {
		ext = ""
	}
	return path.Join(dir, hex.EncodeToString(b[:])+ext)
}

// clean normalises a disk path and refuses anything escaping the root.
func clean(p string) (string, error) {
	c := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	c = strings.TrimPrefix(c, "/")
	if c == "" || c == "." {
		return "", errors.New("storage: empty path")
	}
	return c, nil
}

// Upload is a file received from a client, ready to be stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
