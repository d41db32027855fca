// Package testkit holds helpers shared by the kasir test suites: a migrated
// in-memory database, temporary disks, configuration and HTTP request
// shortcuts built on httptest and testify.
package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/config"
	_ "github.com/shashiranjanraj/kasir/database/migrations"
	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/migration"
	"github.com/shashiranjanraj/kasir/pkg/storage"
)

// DB returns a private in-memory database with every migration applied.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db).Run(context.Background())
	require.NoError(t, err)
	return db
}

// Config returns a Config built from defaults plus raw overrides.
func Config(t *testing.T, raw map[string]string) *config.Config {
	t.Helper()

	values := map[string]string{"JWT_SECRET": "test-secret"}
	for k, v := range raw {
		values[k] = v
	}
	cfg, err := config.FromMap(values)
	require.NoError(t, err)
	return cfg
}

// LocalDisk returns a local disk rooted in a temporary directory.
func LocalDisk(t *testing.T) *storage.LocalDisk {
	t.Helper()

	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost/public")
	require.NoError(t, err)
	return disk
}

// Envelope is the decoded JSON response body.
type Envelope struct {
	OK      bool              `json:"ok"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Detail  json.RawMessage   `json:"detail"`
	Errors  map[string]string `json:"errors"`
}

// Request is one HTTP call against a handler.
type Request struct {
	Method      string
	Path        string
	Token       string
	JSON        interface{}
	Body        io.Reader
	ContentType string
}

// Do serves req through h and returns the recorder.
func Do(t *testing.T, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	body := req.Body
	contentType := req.ContentType
	if req.JSON != nil {
		raw, err := json.Marshal(req.JSON)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// Decode parses the envelope and checks the status code.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, status int) Envelope {
	t.Helper()

	assert.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

// Into decodes raw JSON into dest.
func Into(t *testing.T, raw json.RawMessage, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dest), "payload: %s", string(raw))
}
