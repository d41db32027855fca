package ctx_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/pkg/bind"
	appctx "github.com/shashiranjanraj/kasir/pkg/ctx"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/testkit"
)

func newKit(t *testing.T) *appctx.Kit {
	return appctx.NewKit(bind.New(testkit.Config(t, map[string]string{"MAX_BODY_BYTES": "64"})))
}

func TestParamID(t *testing.T) {
	kit := newKit(t)
	r := chi.NewRouter()
	r.Get("/items/{id}", kit.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamID("id")
		if !ok {
			return
		}
		c.OK("item", id)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	env := testkit.Decode(t, rec, http.StatusOK)
	assert.JSONEq(t, "42", string(env.Detail))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	env = testkit.Decode(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Invalid id", env.Message)
}

func TestQueryHelpers(t *testing.T) {
	kit := newKit(t)
	var (
		page   int
		active *bool
		ok     bool
	)
	h := kit.Wrap(func(c *appctx.Context) {
		page = c.QueryInt("page", 1)
		active, ok = c.QueryBool("active")
		if ok {
			c.OK("ok", nil)
		}
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?page=3&active=false", nil))
	assert.Equal(t, 3, page)
	require.True(t, ok)
	require.NotNil(t, active)
	assert.False(t, *active)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?page=x", nil))
	assert.Equal(t, 1, page)
	assert.Nil(t, active)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?active=maybe", nil))
	env := testkit.Decode(t, rec, http.StatusUnprocessableEntity)
	assert.Contains(t, env.Errors, "active")
}

func TestIdentity(t *testing.T) {
	kit := newKit(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), 7, "admin"))

	kit.Wrap(func(c *appctx.Context) {
		assert.Equal(t, uint(7), c.AccountID())
		assert.True(t, c.IsAdmin())
		c.Data(nil)
	})(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBindJSON(t *testing.T) {
	kit := newKit(t)
	type input struct {
		Name string `json:"name" validate:"required"`
	}
	h := kit.Wrap(func(c *appctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		c.Created("created", in.Name)
	})

	cases := []struct {
		body   string
		status int
	}{
		{`{"name":"tea"}`, http.StatusCreated},
		{`{"name":""}`, http.StatusUnprocessableEntity},
		{`{"name":`, http.StatusBadRequest},
		{`{"name":"` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)))
		assert.Equal(t, tc.status, rec.Code, tc.body)
	}
}

func TestOptionalImage(t *testing.T) {
	kit := newKit(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "tea"))
	require.NoError(t, mw.Close())

	h := func(required bool) http.HandlerFunc {
		return kit.Wrap(func(c *appctx.Context) {
			img, ok := c.Image("image", required)
			if !ok {
				return
			}
			c.OK("ok", img == nil)
		})
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h(false)(rec, req)
	env := testkit.Decode(t, rec, http.StatusOK)
	assert.JSONEq(t, "true", string(env.Detail))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h(true)(rec, req)
	env = testkit.Decode(t, rec, http.StatusUnprocessableEntity)
	assert.Contains(t, env.Errors, "image")
}
