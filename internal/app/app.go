// Package app assembles the repositories, services and HTTP handlers over
// one entity store.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/mediconsult-api/internal/email"
	"github.com/jwalitptl/mediconsult-api/internal/generation"
	adminHandler "github.com/jwalitptl/mediconsult-api/internal/handler/admin"
	authHandler "github.com/jwalitptl/mediconsult-api/internal/handler/auth"
	healthHandler "github.com/jwalitptl/mediconsult-api/internal/handler/health"
	historyHandler "github.com/jwalitptl/mediconsult-api/internal/handler/history"
	intakeHandler "github.com/jwalitptl/mediconsult-api/internal/handler/intake"
	medicineHandler "github.com/jwalitptl/mediconsult-api/internal/handler/medicine"
	orderHandler "github.com/jwalitptl/mediconsult-api/internal/handler/order"
	pricelistHandler "github.com/jwalitptl/mediconsult-api/internal/handler/pricelist"
	sessionHandler "github.com/jwalitptl/mediconsult-api/internal/handler/session"
	settingsHandler "github.com/jwalitptl/mediconsult-api/internal/handler/settings"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/repository/kv"
	"github.com/jwalitptl/mediconsult-api/internal/router"
	authService "github.com/jwalitptl/mediconsult-api/internal/service/auth"
	historyService "github.com/jwalitptl/mediconsult-api/internal/service/history"
	intakeService "github.com/jwalitptl/mediconsult-api/internal/service/intake"
	medicineService "github.com/jwalitptl/mediconsult-api/internal/service/medicine"
	orderService "github.com/jwalitptl/mediconsult-api/internal/service/order"
	pricelistService "github.com/jwalitptl/mediconsult-api/internal/service/pricelist"
	sessionService "github.com/jwalitptl/mediconsult-api/internal/service/session"
	settingsService "github.com/jwalitptl/mediconsult-api/internal/service/settings"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/pkg/auth"
	"github.com/jwalitptl/mediconsult-api/pkg/metrics"
	"github.com/jwalitptl/mediconsult-api/pkg/security"
)

type Options struct {
	Store     store.Store
	Prefix    string
	Generator generation.Generator
	// Mailer may be nil, which disables order notifications.
	Mailer email.Service

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	Router   router.RouterConfig
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

type App struct {
	Codec  *store.Codec
	Repos  *kv.Repositories
	router *router.Router
	stop   func()
}

// New wires the application and starts watching the store for writes made
// by other instances. Close stops the watch.
func New(ctx context.Context, opts Options) (*App, error) {
	if err := middleware.RegisterValidation(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	codec := store.NewCodec(store.Instrument(opts.Store, opts.Metrics), opts.Prefix, kv.Schema(), opts.Logger)
	repos := kv.New(codec)

	jwtSvc, err := auth.NewJWTService(opts.JWTSecret, opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	authSvc := authService.NewService(repos.Users, repos.Credentials, repos.Profiles, repos.Sessions,
		jwtSvc, security.NewBcryptHasher(opts.BcryptCost))
	orderSvc := orderService.NewService(repos.Orders, repos.Seen, opts.Mailer)
	sessionSvc := sessionService.NewService(repos.Sessions, orderSvc)
	intakeSvc := intakeService.NewService(repos.Sessions, repos.Profiles, repos.History, opts.Generator)
	historySvc := historyService.NewService(repos.History, repos.Sessions)
	settingsSvc := settingsService.NewService(repos.Settings)
	pricelistSvc := pricelistService.NewService(repos.PriceList)
	medicineSvc := medicineService.NewService(opts.Generator)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(authMiddleware, router.Handlers{
		Health:    healthHandler.NewHandler(opts.Store, opts.Gatherer),
		Auth:      authHandler.NewHandler(authSvc, authMiddleware),
		Session:   sessionHandler.NewHandler(sessionSvc),
		Settings:  settingsHandler.NewHandler(settingsSvc),
		PriceList: pricelistHandler.NewHandler(pricelistSvc, sessionSvc),
		Medicine:  medicineHandler.NewHandler(medicineSvc),
		History:   historyHandler.NewHandler(historySvc),
		Intake:    intakeHandler.NewHandler(intakeSvc),
		Order:     orderHandler.NewHandler(orderSvc, intakeSvc),
		Admin:     adminHandler.NewHandler(settingsSvc, pricelistSvc, orderSvc, authSvc, historySvc),
	}, opts.Router)
	r.Setup()

	stop, err := repos.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch store changes: %w", err)
	}

	return &App{Codec: codec, Repos: repos, router: r, stop: stop}, nil
}

func (a *App) Handler() http.Handler {
	return a.router.Engine()
}

func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
}
