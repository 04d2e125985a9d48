package resellerhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	aisuggest "github.com/resellerhub/resellerhub/internal/http/handlers/ai/suggest"
	"github.com/resellerhub/resellerhub/internal/http/handlers/analytics/dashboard"
	"github.com/resellerhub/resellerhub/internal/http/handlers/auth/google"
	"github.com/resellerhub/resellerhub/internal/http/handlers/auth/login"
	"github.com/resellerhub/resellerhub/internal/http/handlers/auth/me"
	"github.com/resellerhub/resellerhub/internal/http/handlers/auth/register"
	"github.com/resellerhub/resellerhub/internal/http/handlers/health"
	paymentconfirm "github.com/resellerhub/resellerhub/internal/http/handlers/payment/confirm"
	paymentcreate "github.com/resellerhub/resellerhub/internal/http/handlers/payment/create"
	paymentlist "github.com/resellerhub/resellerhub/internal/http/handlers/payment/list"
	planlist "github.com/resellerhub/resellerhub/internal/http/handlers/plan/list"
	productcreate "github.com/resellerhub/resellerhub/internal/http/handlers/product/create"
	productlist "github.com/resellerhub/resellerhub/internal/http/handlers/product/list"
	productread "github.com/resellerhub/resellerhub/internal/http/handlers/product/read"
	productremove "github.com/resellerhub/resellerhub/internal/http/handlers/product/remove"
	productupdate "github.com/resellerhub/resellerhub/internal/http/handlers/product/update"
	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/lib/jwt"
	"github.com/resellerhub/resellerhub/internal/oauth"
	aiservice "github.com/resellerhub/resellerhub/internal/services/ai"
	analyticsservice "github.com/resellerhub/resellerhub/internal/services/analytics"
	authservice "github.com/resellerhub/resellerhub/internal/services/auth"
	paymentservice "github.com/resellerhub/resellerhub/internal/services/payment"
	productservice "github.com/resellerhub/resellerhub/internal/services/product"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// Services зависимости HTTP-слоя.
type Services struct {
	Auth         *authservice.AuthService
	Payment      *paymentservice.PaymentService
	Product      *productservice.ProductService
	Analytics    *analyticsservice.AnalyticsService
	AI           *aiservice.AIService
	Plans        *repository.Storage
	JWTMaker     jwt.Maker
	OAuth        *oauth.GoogleClient
	DashboardURL string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svcs *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	limiter := rate.NewLimiter(50, 100)
	googleHandler := google.New(logger, svcs.OAuth, svcs.Auth, svcs.DashboardURL)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svcs.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svcs.Auth).ServeHTTP)
		r.Get("/auth/google", googleHandler.Redirect)
		r.Get("/auth/google/callback", googleHandler.Callback)
		r.Get("/plans", planlist.New(logger, svcs.Plans).ServeHTTP)
		r.Get("/health", health.New(logger, func() error {
			return repository.CheckDatabaseReady(svcs.Plans)
		}).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

			r.Get("/auth/me", me.New(logger, svcs.Auth).ServeHTTP)

			r.Post("/products", productcreate.New(logger, svcs.Product).ServeHTTP)
			r.Get("/products", productlist.New(logger, svcs.Product).ServeHTTP)
			r.Get("/products/{id}", productread.New(logger, svcs.Product).ServeHTTP)
			r.Put("/products/{id}", productupdate.New(logger, svcs.Product).ServeHTTP)
			r.Delete("/products/{id}", productremove.New(logger, svcs.Product).ServeHTTP)

			r.Post("/payment/create", paymentcreate.New(logger, svcs.Payment).ServeHTTP)
			r.Post("/payment/confirm", paymentconfirm.New(logger, svcs.Payment).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, svcs.Payment).ServeHTTP)

			r.Get("/analytics/dashboard", dashboard.New(logger, svcs.Analytics).ServeHTTP)
			r.Post("/ai", aisuggest.New(logger, svcs.AI).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
