package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/payments"
	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/sellers"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

// Services carries the domain services the HTTP surface exposes.
type Services struct {
	Auth       auth.Service
	Users      users.Service
	Addresses  address.Service
	Products   product.Service
	Categories categories.Service
	Inventory  inventory.Service
	Sellers    sellers.Service
	Cart       cart.Service
	Checkout   checkout.Service
	Orders     orders.Service
	Payments   payments.Service
	Dashboard  *dashboard.Service
}

// Deps carries the infrastructure the middleware stack needs. Nil fields turn
// the matching feature off.
type Deps struct {
	Pingers     map[string]controllers.Pinger
	Sessions    session.AccessSessionChecker
	RateLimits  middleware.RateLimitStore
	Idempotency pkgredis.IdempotencyStore
	Flash       flash.Store
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Flash(cfg.Session.CookieName, cfg.Session.CookieSecure),
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

	authenticate := middleware.Auth(cfg.JWT, cfg.Session.CookieName, deps.Sessions, logg)
	idempotent := middleware.Idempotency(deps.Idempotency, logg)
	flashes := deps.Flash

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Pingers, logg))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		responses.Redirect(w, r, "/products/")
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", controllers.AuthPage(flashes, logg))
		r.Get("/register", controllers.AuthPage(flashes, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).Post("/login", controllers.AuthLogin(svc.Auth, cfg.Session, flashes, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimits, logg)).Post("/register", controllers.AuthRegister(svc.Auth, flashes, logg))
		r.With(authenticate).Post("/logout", controllers.AuthLogout(svc.Auth, cfg.Session, flashes, logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svc.Products, flashes, logg))
		r.Get("/{productID}", controllers.ProductDetail(svc.Products, flashes, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svc.Orders, flashes, logg))
			r.Get("/{orderID}", controllers.OrderDetail(svc.Orders, flashes, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleSeller)).
				Post("/{orderID}/update-status", controllers.OrderUpdateStatus(svc.Orders, flashes, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleCustomer))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(svc.Cart, flashes, logg))
				r.With(idempotent).Post("/add", controllers.CartAdd(svc.Cart, flashes, logg))
				r.Post("/update", controllers.CartUpdate(svc.Cart, flashes, logg))
				r.Post("/remove", controllers.CartRemove(svc.Cart, flashes, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutReview(svc.Checkout, flashes, logg))
				r.With(idempotent).Post("/place-order", controllers.CheckoutPlaceOrder(svc.Checkout, flashes, logg))
				r.Get("/confirmation", controllers.CheckoutConfirmation(svc.Checkout, flashes, logg))
			})

			r.Route("/payment", func(r chi.Router) {
				r.With(idempotent).Post("/process/{orderID}", controllers.PaymentProcess(svc.Payments, flashes, logg))
				r.Get("/success/{orderID}", controllers.PaymentSuccess(svc.Payments, flashes, logg))
				r.Get("/invoice/{orderID}", controllers.PaymentInvoice(svc.Payments, flashes, logg))
			})

			r.Route("/customer", func(r chi.Router) {
				r.Get("/dashboard", controllers.CustomerDashboard(svc.Dashboard, flashes, logg))
				r.Get("/profile", controllers.CustomerProfile(svc.Users, flashes, logg))
				r.Post("/profile", controllers.CustomerUpdateProfile(svc.Users, flashes, logg))
				r.Get("/addresses", controllers.CustomerAddresses(svc.Addresses, flashes, logg))
				r.Post("/addresses", controllers.CustomerCreateAddress(svc.Addresses, flashes, logg))
				r.Get("/orders", controllers.OrderList(svc.Orders, flashes, logg))
			})
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleSeller))

			h := controllers.SellerHandlers{
				Sellers:   svc.Sellers,
				Products:  svc.Products,
				Inventory: svc.Inventory,
				Dashboard: svc.Dashboard,
				Flash:     flashes,
				Logger:    logg,
			}
			r.Get("/dashboard", h.DashboardPage())
			r.Get("/products", h.ProductsPage())
			r.With(idempotent).Post("/products", h.CreateProduct())
			r.Post("/products/{productID}", h.UpdateProduct())
			r.Get("/inventory", h.InventoryPage())
			r.Post("/inventory", h.UpdateInventory())
			r.Get("/orders", controllers.OrderList(svc.Orders, flashes, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))

			r.Get("/dashboard", controllers.AdminDashboard(svc.Dashboard, flashes, logg))
			r.Get("/sellers", controllers.AdminSellers(svc.Sellers, flashes, logg))
			r.With(idempotent).Post("/sellers", controllers.AdminCreateSeller(svc.Sellers, flashes, logg))
			r.Get("/categories", controllers.AdminCategories(svc.Categories, flashes, logg))
			r.With(idempotent).Post("/categories", controllers.AdminCreateCategory(svc.Categories, flashes, logg))
			r.Get("/orders", controllers.OrderList(svc.Orders, flashes, logg))
		})
	})

	return r
}
