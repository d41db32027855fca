package routes

import (
	"github.com/shashiranjanraj/kasir/app/controllers"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/rbac"
	"github.com/shashiranjanraj/kasir/pkg/router"
)

// Controllers holds the handlers behind the /api routes.
type Controllers struct {
	Auth         *controllers.AuthController
	Categories   *controllers.CategoryController
	Products     *controllers.ProductController
	Transactions *controllers.TransactionController
}

func RegisterAPI(r *router.Router, kit *ctx.Kit, tokens *auth.Tokens, c Controllers) {
	h := kit.Wrap
	api := r.Group("/api")
	api.Post("/auth/login", "auth.login", h(c.Auth.Login))

	user := api.Group("", middleware.Authenticate(tokens))
	admin := user.Group("", rbac.Admin)

	admin.Post("/auth/register", "auth.register", h(c.Auth.Register))
	admin.Get("/auth/profile", "auth.profiles", h(c.Auth.Profiles))
	user.Get("/auth/profile/{username}", "auth.profile", h(c.Auth.Profile))
	user.Patch("/auth/profile", "auth.photo", h(c.Auth.UpdatePhoto))

	user.Get("/categories", "categories.index", h(c.Categories.Index))
	admin.Post("/categories/input", "categories.store", h(c.Categories.Store))
	admin.Put("/categories/{category}", "categories.rename", h(c.Categories.Rename))
	admin.Delete("/categories/{category}", "categories.destroy", h(c.Categories.Destroy))

	user.Get("/products", "products.index", h(c.Products.Index))
	user.Get("/products/{id}", "products.show", h(c.Products.Show))
	admin.Post("/products/create", "products.store", h(c.Products.Store))
	admin.Put("/products/{id}", "products.update", h(c.Products.Update))
	admin.Patch("/products/{id}/active", "products.active", h(c.Products.SetActive))
	admin.Delete("/products/{id}", "products.destroy", h(c.Products.Destroy))

	user.Post("/transactions", "transactions.store", h(c.Transactions.Store))
	admin.Get("/transactions", "transactions.index", h(c.Transactions.Index))
	user.Get("/transactions/mine", "transactions.mine", h(c.Transactions.Mine))
}
