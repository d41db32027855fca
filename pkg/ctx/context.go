// Package ctx gives handlers a single request context with helpers for
// path and query parameters, the authenticated caller, body binding and the
// JSON envelope.
//
//	func (c *ProductController) Show(cx *ctx.Context) {
//	    id, ok := cx.ParamID("id")
//	    if !ok {
//	        return // 400 already sent
//	    }
//	    ...
//	    cx.OK("Product", product)
//	}
//
//	kit := ctx.NewKit(bind.New(cfg))
//	api.Get("/products/{id}", "products.show", kit.Wrap(products.Show))
package ctx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/kasir/pkg/bind"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/rbac"
	"github.com/shashiranjanraj/kasir/pkg/response"
	"github.com/shashiranjanraj/kasir/pkg/storage"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Kit converts HandlerFuncs into http.HandlerFuncs that share one binder.
type Kit struct {
	binder *bind.Binder
}

func NewKit(binder *bind.Binder) *Kit {
	return &Kit{binder: binder}
}

// Wrap converts h to a standard http.HandlerFunc.
func (k *Kit) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(k.binder, w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	binder *bind.Binder
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(b *bind.Binder, w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R, c.binder = w, r, b
	return c
}

func release(c *Context) {
	c.W, c.R, c.binder = nil, nil, nil
	pool.Put(c)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a numeric path parameter. On failure it sends a 400 and
// returns false.
func (c *Context) ParamID(key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		c.Error(http.StatusBadRequest, "Invalid "+key)
		return 0, false
	}
	return uint(id), true
}

// Query returns a trimmed query-string value, "" if absent.
func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

// QueryInt returns a query-string integer, or def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryBool parses an optional boolean query value. A malformed value sends
// a 422 and returns false.
func (c *Context) QueryBool(key string) (*bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.ValidationError(map[string]string{key: "The " + key + " field must be true or false."})
		return nil, false
	}
	return &v, true
}

// AccountID returns the authenticated caller. It is zero on public routes.
func (c *Context) AccountID() uint {
	id, _ := middleware.UserIDFromCtx(c.R.Context())
	return id
}

// IsAdmin reports whether the caller holds the admin role.
func (c *Context) IsAdmin() bool {
	role, _ := middleware.RoleFromCtx(c.R.Context())
	return role == rbac.RoleAdmin
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the JSON body into dest. On failure it
// sends 400, 413 or 422 and returns false.
//
//	var in services.OrderInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := c.binder.JSON(c.W, c.R, dest)
	return c.bound(errs, err)
}

// BindForm decodes and validates a multipart or urlencoded body into the
// form-tagged fields of dest.
func (c *Context) BindForm(dest any) bool {
	errs, err := c.binder.Form(c.W, c.R, dest)
	return c.bound(errs, err)
}

// Image returns the uploaded image in field. A missing file yields nil
// unless required is set. Invalid uploads send a 422.
func (c *Context) Image(field string, required bool) (*storage.Upload, bool) {
	upload, err := c.binder.Image(c.W, c.R, field)
	switch {
	case err == nil:
		return &upload, true
	case errors.Is(err, bind.ErrMissingFile) && !required:
		return nil, true
	case errors.Is(err, bind.ErrMissingFile), errors.Is(err, bind.ErrNotImage):
		c.ValidationError(map[string]string{field: "The " + field + " " + err.Error() + "."})
		return nil, false
	default:
		return nil, c.bound(nil, err)
	}
}

func (c *Context) bound(errs validate.Errors, err error) bool {
	switch {
	case errors.Is(err, bind.ErrBodyTooLarge):
		c.Fail(http.StatusRequestEntityTooLarge, "Request body too large", err)
		return false
	case err != nil:
		c.Fail(http.StatusBadRequest, "Malformed request", err)
		return false
	case validate.HasErrors(errs):
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

func (c *Context) OK(message string, detail any)      { response.OK(c.W, message, detail) }
func (c *Context) Created(message string, detail any) { response.Created(c.W, message, detail) }
func (c *Context) Data(data any)                      { response.Data(c.W, data) }
func (c *Context) Error(status int, message string)   { response.Error(c.W, status, message) }

// Fail sends a failure envelope whose detail is the cause string.
func (c *Context) Fail(status int, message string, cause error) {
	response.Fail(c.W, status, message, cause)
}

func (c *Context) ValidationError(errs map[string]string) { response.ValidationError(c.W, errs) }
