package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medimart/medi-server/auth"
	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/handlers"
	"github.com/medimart/medi-server/middleware"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/repositories/memory"
	"github.com/medimart/medi-server/repositories/mongodb"
	"github.com/medimart/medi-server/repositories/postgres"
	"github.com/medimart/medi-server/services/advertisements"
	"github.com/medimart/medi-server/services/cart"
	"github.com/medimart/medi-server/services/catalog"
	"github.com/medimart/medi-server/services/events"
	"github.com/medimart/medi-server/services/payments"
	"github.com/medimart/medi-server/services/reports"
	"github.com/medimart/medi-server/services/storage"
	"github.com/medimart/medi-server/services/users"
	"go.uber.org/zap"
)

// eventDrainTimeout bounds how long Close waits for queued events
const eventDrainTimeout = 5 * time.Second

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Store  *repositories.Store
	Logger *zap.Logger

	// Events
	Publisher events.Publisher
	Events    *events.Dispatcher

	// Services
	Users          *users.Service
	Categories     *catalog.CategoryService
	Products       *catalog.ProductService
	Carts          *cart.Service
	Payments       *payments.Service
	Reports        *reports.Service
	Advertisements *advertisements.Service

	// HTTP
	AuthHandler          *auth.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	UserHandler          *handlers.UserHandler
	CatalogHandler       *handlers.CatalogHandler
	CartHandler          *handlers.CartHandler
	PaymentHandler       *handlers.PaymentHandler
	ReportHandler        *handlers.ReportHandler
	AdvertisementHandler *handlers.AdvertisementHandler
	UploadHandler        *handlers.UploadHandler
	HealthHandler        *handlers.HealthHandler
}

// NewDependencies connects the store and wires every service and handler.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	deps, err := NewDependenciesWithStore(ctx, cfg, store, logger)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithStore wires everything on top of an already opened store
func NewDependenciesWithStore(ctx context.Context, cfg *config.Config, store *repositories.Store, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Store:  store,
		Logger: logger,
	}

	if err := deps.initEvents(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize events: %w", err)
	}

	gateway := deps.initGateway(cfg)
	deps.initServices(cfg, gateway)

	if err := deps.initAuth(cfg); err != nil {
		deps.stopEvents()
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	presigner, err := deps.initStorage(ctx, cfg)
	if err != nil {
		deps.stopEvents()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps.initHandlers(presigner)

	logger.Info("all dependencies initialized successfully",
		zap.String("store", cfg.Store.Driver))
	return deps, nil
}

// openStore connects the configured backend and checks it answers
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories.Store, error) {
	var (
		store *repositories.Store
		err   error
	)

	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err = mongodb.NewStore(ctx, cfg.Store.Mongo, logger)
		if err == nil {
			logger.Info("mongodb connection established",
				zap.String("connection", cfg.Store.Mongo.LogString()))
		}
	case config.DriverPostgres:
		store, err = postgres.NewStore(cfg.Store.Postgres, logger)
		if err == nil {
			logger.Info("database connection established",
				zap.String("connection", cfg.Store.Postgres.LogString()))
		}
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("store ping failed: %w", err)
	}
	return store, nil
}

// initEvents selects the publisher and starts the dispatcher in front of it
func (d *Dependencies) initEvents(cfg *config.Config) error {
	if cfg.Messaging.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.Messaging.AMQPURL, cfg.Messaging.Exchange, d.Logger)
		if err != nil {
			return err
		}
		d.Publisher = publisher
		d.Logger.Info("publishing events to amqp", zap.String("exchange", cfg.Messaging.Exchange))
	} else {
		d.Logger.Warn("AMQP_URL not set, events are discarded")
		d.Publisher = events.NewNoopPublisher(d.Logger)
	}

	d.Events = events.NewDispatcher(d.Publisher, d.Logger, events.DefaultConfig())
	if err := d.Events.Start(); err != nil {
		_ = d.Publisher.Close()
		return err
	}
	return nil
}

// initGateway returns nil when no Stripe key is configured; intents then answer 503
func (d *Dependencies) initGateway(cfg *config.Config) payments.Gateway {
	if cfg.Payments.StripeSecretKey == "" {
		d.Logger.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
		return nil
	}
	return payments.NewStripeGateway(cfg.Payments.StripeSecretKey, nil, d.Logger)
}

func (d *Dependencies) initServices(cfg *config.Config, gateway payments.Gateway) {
	d.Users = users.NewService(d.Store.Users, d.Events, d.Logger)
	d.Categories = catalog.NewCategoryService(d.Store.Categories, d.Logger)
	d.Products = catalog.NewProductService(d.Store.Products, d.Logger)
	d.Carts = cart.NewService(d.Store.Carts, d.Logger)
	d.Payments = payments.NewService(d.Store, gateway, cfg.Payments.Currency, d.Events, d.Logger)
	d.Reports = reports.NewService(d.Store.Payments, d.Logger)
	d.Advertisements = advertisements.NewService(d.Store.Advertisements, d.Logger)
}

func (d *Dependencies) initAuth(cfg *config.Config) error {
	issuer, err := auth.NewIssuer(cfg.Auth.TokenSecret)
	if err != nil {
		return err
	}
	verifier, err := auth.NewVerifier(cfg.Auth.TokenSecret)
	if err != nil {
		return err
	}
	credentials, err := auth.NewCredentialVerifier(cfg.Auth.CredentialMode, d.Store.Users, d.Logger)
	if err != nil {
		return err
	}

	d.AuthHandler = auth.NewHandler(issuer, credentials, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(verifier, d.Store.Users, d.Logger)
	d.Logger.Info("auth initialized", zap.String("credential_mode", cfg.Auth.CredentialMode))
	return nil
}

// initStorage returns nil when no bucket is configured; uploads then answer 503
func (d *Dependencies) initStorage(ctx context.Context, cfg *config.Config) (*storage.Presigner, error) {
	if !cfg.Storage.Enabled() {
		d.Logger.Warn("S3_BUCKET not set, image uploads disabled")
		return nil, nil
	}
	presigner, err := storage.NewPresigner(ctx, cfg.Storage, d.Logger)
	if err != nil {
		return nil, err
	}
	d.Logger.Info("image uploads enabled", zap.String("bucket", cfg.Storage.Bucket))
	return presigner, nil
}

func (d *Dependencies) initHandlers(presigner *storage.Presigner) {
	d.UserHandler = handlers.NewUserHandler(d.Users, d.Logger)
	d.CatalogHandler = handlers.NewCatalogHandler(d.Categories, d.Products, d.Logger)
	d.CartHandler = handlers.NewCartHandler(d.Carts, d.Logger)
	d.PaymentHandler = handlers.NewPaymentHandler(d.Payments, d.Logger)
	d.ReportHandler = handlers.NewReportHandler(d.Reports, d.Logger)
	d.AdvertisementHandler = handlers.NewAdvertisementHandler(d.Advertisements, d.Logger)

	// A typed nil would defeat the handler's disabled check
	if presigner != nil {
		d.UploadHandler = handlers.NewUploadHandler(presigner, d.Logger)
	} else {
		d.UploadHandler = handlers.NewUploadHandler(nil, d.Logger)
	}

	d.HealthHandler = handlers.NewHealthHandler(map[string]handlers.Pinger{
		"store": d.Store,
	}, d.Logger)
}

func (d *Dependencies) stopEvents() {
	if d.Events != nil {
		if err := d.Events.Stop(eventDrainTimeout); err != nil {
			d.Logger.Warn("event dispatcher did not drain", zap.Error(err))
		}
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Events != nil {
		if err := d.Events.Stop(eventDrainTimeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to drain events: %w", err))
		}
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
	}

	if d.Store != nil {
		if err := d.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		} else {
			d.Logger.Info("store connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
