// Package http exposes the service over a chi router: public auth routes,
// bearer-protected user/commerce routes, and role-gated provider and
// admin routes.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tupatil-17/easy-shop/internal/domain"
	obsmw "github.com/tupatil-17/easy-shop/internal/observability/middleware"
	"github.com/tupatil-17/easy-shop/internal/service"
)

const (
	// Per-IP ceilings. Credential routes get a much tighter budget than
	// general traffic: an OTP has 900000 possible values and a short
	// lifetime, so throttling is what makes online guessing infeasible.
	generalRateLimit = 100
	authRateLimit    = 15
	rateWindow       = time.Minute
)

func NewRouter(h *Handler, tokens service.TokenService, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(generalRateLimit, rateWindow))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(corsOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(obsmw.WithRequestAndTrace)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := RequireAuth(tokens)
	sellers := RequireRoles(domain.RoleServiceProvider, domain.RoleAdmin)
	admins := RequireRoles(domain.RoleAdmin)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(httprate.LimitByIP(authRateLimit, rateWindow))
				r.Post("/register", h.register)
				r.Post("/verify-email", h.verifyEmail)
				r.Post("/login", h.login)
				r.Post("/verify-otp", h.verifyLoginOTP)
			})
			r.Post("/refresh", h.refresh)
			r.Post("/logout", h.logout)
			r.With(requireAuth).Get("/me", h.me)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.With(requireAuth, sellers).Post("/", h.createProduct)
			r.With(requireAuth, sellers).Get("/mine", h.listMyProducts)
			r.Get("/{productID}", h.getProduct)
			r.With(requireAuth, sellers).Put("/{productID}", h.updateProduct)
			r.With(requireAuth, sellers).Delete("/{productID}", h.deleteProduct)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", h.profile)
			r.Put("/profile", h.updateProfile)

			r.Get("/cart", h.cart)
			r.Post("/cart/{productID}", h.addToCart)
			r.Put("/cart/{productID}", h.setCartQuantity)
			r.Delete("/cart/{productID}", h.removeFromCart)

			r.Get("/favourites", h.favourites)
			r.Post("/favourites/{productID}", h.addFavourite)
			r.Delete("/favourites/{productID}", h.removeFavourite)

			r.Post("/apply-provider", h.applyProvider)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create-intent", h.createOrder)
			r.Post("/confirm", h.confirmOrder)
		})
		r.With(requireAuth).Get("/orders", h.listOrders)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, admins)
			r.Get("/products/pending", h.listPendingProducts)
			r.Patch("/products/{productID}/status", h.setProductStatus)
			r.Delete("/products/{productID}", h.deleteProduct)
			r.Get("/applications", h.listApplications)
			r.Post("/applications/{userID}/approve", h.approveProvider)
			r.Post("/applications/{userID}/reject", h.rejectProvider)
			r.Get("/users", h.listUsers)
			r.Delete("/users/{userID}", h.deleteUser)
		})
	})

	return r
}

func originsIfSet(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
