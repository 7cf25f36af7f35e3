package routes

import (
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"toy-store/cache"
	"toy-store/config"
	"toy-store/controllers"
	"toy-store/libs"
	"toy-store/middleware"
	"toy-store/repositories"
	"toy-store/services"
)

// App holds everything SetupRoutes needs plus the resources to release on
// shutdown.
type App struct {
	Handlers *Handlers
	Options  Options
	closers  []func() error
	logger   *zap.Logger
}

// NewApp wires repositories, caches and services. rdb may be nil, in which
// case response caching is off and shipping options are cached in memory.
func NewApp(cfg *config.Config, db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{logger: logger}

	cartRepo := repositories.NewCartRepository(db)
	variantRepo := repositories.NewVariantRepository(db)
	discountRepo := repositories.NewDiscountRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	shippingRepo := repositories.NewShippingRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)

	tagCache := cache.NewTagCache(rdb, 0)

	var shippingCache cache.ShippingOptionsCache = cache.NewMemoryShippingCache(cfg.ShippingCacheTTL)
	if cfg.ShippingCacheBackend == "redis" && rdb != nil {
		shippingCache = cache.NewRedisShippingCache(rdb, cfg.ShippingCacheTTL, logger)
	}

	cartCfg := services.CartServiceConfig{
		GiftWrapVariantID: cfg.GiftWrapVariantID,
		Logger:            logger,
	}
	if tagCache.Enabled() {
		cartCfg.Cache = tagCache
	}
	carts := services.NewCartService(cartRepo, variantRepo, discountRepo, paymentRepo, cartCfg)

	paymentCfg := services.PaymentServiceConfig{
		PayU: services.PayUConfig{
			Key:         cfg.PayUKey,
			Salt:        cfg.PayUSalt,
			SaltV2:      cfg.PayUSaltV2,
			BaseURL:     cfg.PayUBaseURL,
			CallbackURL: strings.TrimRight(cfg.PublicAPIURL, "/") + "/payment/payu/callback",
		},
		DefaultProvider: cfg.DefaultPaymentProvider,
		Logger:          logger,
	}
	if mailer, err := libs.NewMailer(cfg); err == nil {
		paymentCfg.Mailer = mailer
	} else {
		logger.Info("order confirmation emails disabled", zap.Error(err))
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := libs.NewKafkaPublisher(cfg.KafkaOrdersTopic, cfg.KafkaBrokers...)
		paymentCfg.Events = publisher
		app.closers = append(app.closers, publisher.Close)
	}

	payments := services.NewPaymentService(carts, paymentRepo, orderRepo, paymentCfg)
	shipping := services.NewShippingService(carts, cartRepo, shippingRepo, shippingCache, cfg.BackendTimeout, logger)
	checkout := services.NewCheckoutService(carts, payments, orderRepo, logger)
	auth := services.NewAuthService(customerRepo, cfg.JWTSecret, cfg.JWTExpiry)
	products := services.NewProductService(variantRepo, cfg.GiftWrapVariantID)
	revalidate := services.NewRevalidateService(tagCache, shippingCache, logger)

	secure := cfg.IsProduction()
	app.Handlers = &Handlers{
		Auth: &controllers.AuthController{Auth: auth, Expiry: cfg.JWTExpiry, Secure: secure},
		Carts: &controllers.CartController{
			Carts:    carts,
			Shipping: shipping,
			Payments: payments,
			Auth:     auth,
			Cache:    tagCache,
			Secure:   secure,
			Logger:   logger,
		},
		Promos:   &controllers.PromoController{Carts: carts},
		Products: &controllers.ProductController{Products: products, Cache: tagCache, Logger: logger},
		Orders:   &controllers.OrderController{Checkout: checkout},
		Checkout: &controllers.TransactionController{
			Checkout:      checkout,
			Payments:      payments,
			Auth:          auth,
			StorefrontURL: cfg.StorefrontURL,
			Secure:        secure,
			Logger:        logger,
		},
		Revalidate: &controllers.RevalidateController{Service: revalidate},
	}
	app.Options = Options{
		JWTSecret: cfg.JWTSecret,
		Session: middleware.SessionConfig{
			Secret: cfg.JWTSecret,
			Expiry: cfg.JWTExpiry,
			Window: cfg.SessionRefreshWindow,
			Secure: secure,
		},
		RevalidateSecret: cfg.RevalidateSecret,
	}
	return app
}

func (a *App) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("shutdown", zap.Error(err))
		}
	}
}
