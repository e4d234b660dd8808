package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dohelmoto/backend/api/controllers"
	"github.com/dohelmoto/backend/api/middleware"
	authsvc "github.com/dohelmoto/backend/internal/auth"
	cartsvc "github.com/dohelmoto/backend/internal/cart"
	catalogsvc "github.com/dohelmoto/backend/internal/catalog"
	ordersvc "github.com/dohelmoto/backend/internal/orders"
	paymentsvc "github.com/dohelmoto/backend/internal/payments"
	"github.com/dohelmoto/backend/pkg/config"
	"github.com/dohelmoto/backend/pkg/logger"
	"github.com/dohelmoto/backend/pkg/metrics"
	"github.com/dohelmoto/backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Metrics     *metrics.RequestMetrics
	RoleChecker middleware.RoleChecker

	Auth     authsvc.Service
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Orders   ordersvc.Service
	Payments paymentsvc.Service
}

// NewRouter wires the full route tree: public catalog and auth, the
// authenticated shopper surface, the payment gateway callback and the
// admin surface behind the storage-backed role gate.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if cfg.FeatureFlags.Metrics && p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.HealthLive(cfg))

		r.Route("/auth", func(r chi.Router) {
			withRatePolicy(r, p.Redis, logg, registerPolicy).Post("/register", controllers.Register(p.Auth, logg))
			withRatePolicy(r, p.Redis, logg, loginPolicy).Post("/login", controllers.Login(p.Auth, logg))
		})

		r.Get("/categories", controllers.ListCategories(p.Catalog, logg))
		r.Get("/products", controllers.ListProducts(p.Catalog, logg))
		r.Get("/products/{id}", controllers.GetProduct(p.Catalog, logg))

		// The gateway has no bearer token; the transaction id is the
		// only correlation it carries.
		r.Post("/payments/callback", controllers.PaymentCallback(p.Payments, logg))
		r.Get("/payments/callback", controllers.PaymentCallback(p.Payments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(p.Cart, logg))
				r.Delete("/", controllers.ClearCart(p.Cart, logg))
				r.Get("/count", controllers.CartCount(p.Cart, logg))
				r.Post("/items", controllers.AddCartItem(p.Cart, logg))
				r.Put("/items/{productId}", controllers.UpdateCartItem(p.Cart, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(p.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.Checkout(p.Orders, logg))
				r.Get("/", controllers.ListMyOrders(p.Orders, logg))
				r.Get("/{id}", controllers.GetMyOrder(p.Orders, logg))
			})

			r.Post("/payments/initiate", controllers.InitiatePayment(p.Payments, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(p.RoleChecker, logg))

				r.Route("/categories", func(r chi.Router) {
					r.Post("/", controllers.AdminCreateCategory(p.Catalog, logg))
					r.Put("/{id}", controllers.AdminUpdateCategory(p.Catalog, logg))
					r.Delete("/{id}", controllers.AdminDeleteCategory(p.Catalog, logg))
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(p.Catalog, logg))
					r.Post("/", controllers.AdminCreateProduct(p.Catalog, logg))
					r.Put("/{id}", controllers.AdminUpdateProduct(p.Catalog, logg))
					r.Delete("/{id}", controllers.AdminDeleteProduct(p.Catalog, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(p.Orders, logg))
					r.Put("/{id}/status", controllers.AdminUpdateOrderStatus(p.Orders, logg))
				})
			})
		})
	})

	return r
}

// withRatePolicy attaches the auth rate limiter only when a redis client is
// wired; a nil *redis.Client inside the middleware's store interface would
// not compare equal to nil.
func withRatePolicy(r chi.Router, client *redis.Client, logg *logger.Logger, policy middleware.AuthRateLimitPolicy) chi.Router {
	if client == nil {
		return r
	}
	return r.With(middleware.AuthRateLimit(policy, client, logg))
}
