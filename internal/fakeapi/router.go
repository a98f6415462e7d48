package fakeapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/health"
	"github.com/localharvest/marketclient/pkg/middleware"
)

// ServiceName labels the fake backend's logs, metrics and spans.
const ServiceName = "fakeapi"

// NewRouter creates a chi router with every marketplace route registered.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", h.Login)
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{slug}", h.GetCategory)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.tokens.Validate))
		r.Use(middleware.RequestLogger(logger))

		r.Get("/user/profile", h.GetProfile)
		r.Put("/user/profile", h.UpdateProfile)
		r.Put("/user/password", h.ChangePassword)

		r.Get("/orders", h.ListOrders)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders/{id}/cancel", h.CancelOrder)

		r.Route("/harvest-requests", func(r chi.Router) {
			r.Get("/", h.ListHarvestRequests)
			r.Post("/", h.CreateHarvestRequest)
			r.Get("/{id}", h.GetHarvestRequest)
			r.Put("/{id}", h.UpdateHarvestRequest)
			r.Delete("/{id}", h.DeleteHarvestRequest)
			r.With(middleware.RequireRole(domain.RoleSeller)).Post("/{id}/{action}", h.AnswerHarvestRequest)
		})

		r.Route("/earnings", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleSeller, domain.RoleCourier))
			r.Get("/", h.ListEarnings)
			r.Get("/summary", h.EarningsSummary)
			r.Post("/payouts", h.RequestPayout)
		})

		r.Get("/verifications", h.ListVerifications)
		r.Post("/verifications", h.SubmitVerification)
		r.Get("/verifications/{id}", h.GetVerification)

		r.Get("/wishlist", h.ListWishlist)
		r.Post("/wishlist", h.AddToWishlist)
		r.Post("/wishlist/toggle", h.ToggleWishlist)
		r.Get("/wishlist/check/{productId}", h.CheckWishlist)
		r.Delete("/wishlist/{productId}", h.RemoveFromWishlist)

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleSeller))
			r.Get("/products", h.ListSellerProducts)
			r.Post("/products", h.CreateProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)
			r.Get("/orders", h.ListSellerOrders)
			r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
		})

		r.Route("/courier", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleCourier))
			r.Get("/deliveries", h.ListDeliveries)
			r.Post("/deliveries/{id}/{action}", h.AdvanceDelivery)
		})
	})

	return r
}
