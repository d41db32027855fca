// Package kernel wires configuration, storage, services and controllers into
// the application and builds its HTTP handler.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/controllers"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/app/routes"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/bind"
	"github.com/shashiranjanraj/kasir/pkg/cache"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/reqid"
	"github.com/shashiranjanraj/kasir/pkg/router"
	"github.com/shashiranjanraj/kasir/pkg/storage"
)

// App is a fully wired application.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  cache.Store
	Disks  *storage.Manager
	Events *event.Dispatcher
	Tokens *auth.Tokens

	Auth    *services.AuthService
	Catalog *services.CatalogService
	Orders  *services.TransactionService

	limiter *middleware.Limiter
}

// Boot connects the database, cache and disks described by cfg.
func Boot(c context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Connect(c, cfg)
	if err != nil {
		return nil, err
	}
	store, err := cache.Connect(c, cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	disks, err := storage.NewManager(c, cfg)
	if err != nil {
		_ = release(store, db)
		return nil, err
	}
	return New(cfg, db, store, disks), nil
}

// New wires the services over already opened resources.
func New(cfg *config.Config, db *gorm.DB, store cache.Store, disks *storage.Manager) *App {
	repo := repositories.NewGormStore(db)
	events := event.New()
	tokens := auth.NewTokens(cfg.JWTSecret)
	disk := disks.Default()

	a := &App{
		Config:  cfg,
		DB:      db,
		Cache:   store,
		Disks:   disks,
		Events:  events,
		Tokens:  tokens,
		Auth:    services.NewAuthService(repo, tokens, disk, events),
		Catalog: services.NewCatalogService(repo, disk, store, cfg.CacheTTL),
		Orders:  services.NewTransactionService(repo, events, cfg.UnknownProducts),
		limiter: middleware.NewLimiter(cfg.RateLimit, time.Minute),
	}
	registerListeners(events)
	return a
}

// Router builds the route table with the global middleware stack.
func (a *App) Router() *router.Router {
	r := router.New()

	// Outermost first.
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		a.limiter.Middleware,
		middleware.Timeout(a.Config.RequestTimeout),
	)

	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())
	if local := a.Disks.Local(); local != nil {
		r.Mount("/public", "public", http.FileServer(http.Dir(local.Root())))
	}

	routes.RegisterAPI(r, ctx.NewKit(bind.New(a.Config)), a.Tokens, routes.Controllers{
		Auth:         controllers.NewAuthController(a.Auth),
		Categories:   controllers.NewCategoryController(a.Catalog),
		Products:     controllers.NewProductController(a.Catalog),
		Transactions: controllers.NewTransactionController(a.Orders),
	})
	return r
}

// Handler is Router().Handler().
func (a *App) Handler() http.Handler {
	return a.Router().Handler()
}

// Background runs housekeeping until c is cancelled.
func (a *App) Background(c context.Context) {
	go a.limiter.Janitor(c)
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	return release(a.Cache, a.DB)
}

func release(store cache.Store, db *gorm.DB) error {
	var errs []error
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
