package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/pkg/router"
)

func tag(value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsComposeMiddlewareAndPrefix(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("api"))
	products := api.Group("products", tag("products"))
	products.Patch("/{id}/active", "products.active", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(chi.URLParam(req, "id")))
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/products/42/active", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
	assert.Equal(t, []string{"api", "products", "route"}, rec.Header().Values("X-Chain"))
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("/api/categories").Delete("/{name}", "categories.delete", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("categories.delete", map[string]string{"name": "drinks"})
	require.NoError(t, err)
	assert.Equal(t, "/api/categories/drinks", url)

	_, err = r.URL("categories.delete", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesAreListedSorted(t *testing.T) {
	r := router.New()
	g := r.Group("/api")
	g.Post("/transactions", "transactions.create", func(http.ResponseWriter, *http.Request) {})
	g.Get("/transactions", "transactions.index", func(http.ResponseWriter, *http.Request) {})
	g.Get("/categories", "", func(http.ResponseWriter, *http.Request) {})

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.Route{Method: "GET", Path: "/api/categories"}, routes[0])
	assert.Equal(t, "GET", routes[1].Method)
	assert.Equal(t, "POST", routes[2].Method)
}

func TestMountStripsPrefix(t *testing.T) {
	r := router.New()
	r.Mount("/public", "public", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(req.URL.Path))
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/avatars/a.png", nil))
	assert.Equal(t, "/avatars/a.png", rec.Body.String())
}
