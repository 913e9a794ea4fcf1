package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-bff/api/controllers"
	"github.com/angelmondragon/storefront-bff/api/middleware"
	"github.com/angelmondragon/storefront-bff/internal/account"
	"github.com/angelmondragon/storefront-bff/internal/auth"
	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/catalog"
	"github.com/angelmondragon/storefront-bff/internal/demousers"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/internal/wishlist"
	"github.com/angelmondragon/storefront-bff/pkg/auth/session"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/redis"
)

// Services groups the domain services mounted by the router.
type Services struct {
	Catalog   catalog.Service
	Auth      auth.Service
	Account   account.Service
	Cart      cart.Service
	Wishlist  wishlist.Service
	Orders    orders.Service
	DemoUsers *demousers.Store
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions session.Resolver,
	registry *prometheus.Registry,
	m *metrics.Metrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

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
	passwordResetPolicy := middleware.NewAuthRateLimitPolicy(
		"password_reset",
		cfg.AuthRateLimit.PasswordResetWindow,
		cfg.AuthRateLimit.PasswordResetIPLimit,
		cfg.AuthRateLimit.PasswordResetEmailLimit,
	)
	requireSession := middleware.Auth(cfg.JWT, sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisClient, logg))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, nil, logg))
			r.With(requireSession, middleware.RequireRole("admin", logg)).Post("/", controllers.ProductCreate(svcs.Catalog, logg))
			r.Get("/{id}", controllers.ProductGet(svcs.Catalog, logg))
			r.Get("/{id}/reviews", controllers.ProductReviews(svcs.Catalog, logg))
			r.With(requireSession).Post("/{id}/reviews", controllers.ProductReviewCreate(svcs.Catalog, logg))
		})
		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.BrandList(svcs.Catalog, logg))
			r.Get("/{id}", controllers.BrandGet(svcs.Catalog, logg))
			r.Get("/{id}/products", controllers.ProductList(svcs.Catalog, controllers.ByBrand, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Catalog, logg))
			r.Get("/{id}", controllers.CategoryGet(svcs.Catalog, logg))
			r.Get("/{id}/products", controllers.ProductList(svcs.Catalog, controllers.ByCategory, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/signin", controllers.AuthSignin(svcs.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(svcs.Auth, logg))
			r.With(middleware.AuthRateLimit(passwordResetPolicy, redisClient, logg)).Post("/forgotPasswords", controllers.AuthForgotPassword(svcs.Auth, logg))
			r.Post("/verifyResetCode", controllers.AuthVerifyResetCode(svcs.Auth, logg))
			r.Patch("/resetPassword/{token}", controllers.AuthResetPassword(svcs.Auth, logg))
			r.Put("/resetPassword", controllers.AuthResetPasswordWithEmail(svcs.Auth, logg))
			r.With(requireSession).Post("/signout", controllers.AuthSignout(svcs.Auth, logg))
			r.With(requireSession).Get("/session", controllers.AuthSession(logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Post("/", controllers.CartAdd(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Get("/count", controllers.CartCount(svcs.Cart, logg))
				r.Put("/{id}", controllers.CartUpdateQuantity(svcs.Cart, logg))
				r.Delete("/{id}", controllers.CartRemove(svcs.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
				r.Get("/ids", controllers.WishlistIDs(svcs.Wishlist, logg))
				r.Get("/count", controllers.WishlistCount(svcs.Wishlist, logg))
				r.Delete("/{id}", controllers.WishlistRemove(svcs.Wishlist, logg))
				r.Get("/{id}/contains", controllers.WishlistContains(svcs.Wishlist, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				// Per route so the rule lookup sees the resolved pattern.
				idem := middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg)
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.With(idem).Post("/", controllers.OrderCreate(svcs.Orders, logg))
				r.With(idem).Post("/checkout", controllers.OrderCheckout(svcs.Orders, logg))
				r.Get("/{id}", controllers.OrderGet(svcs.Orders, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", controllers.AccountMe(svcs.Account, logg))
				r.Put("/updateMe", controllers.AccountUpdate(svcs.Account, logg))
				r.Put("/changeMyPassword", controllers.AccountChangePassword(svcs.Account, logg))
				r.Delete("/deleteMe", controllers.AccountDelete(svcs.Account, logg))
			})
		})
	})

	if !cfg.App.IsProd() && svcs.DemoUsers != nil {
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", controllers.DemoUsersList(svcs.DemoUsers))
			r.Post("/", controllers.DemoUsersCreate(svcs.DemoUsers, logg))
		})
	}

	return r
}
