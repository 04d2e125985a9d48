// Package resellerhub собирает приложение: хранилище, миграции, кеш,
// брокер событий, внешние клиенты, сервисы и HTTP-сервер.
package resellerhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/resellerhub/resellerhub/internal/cache"
	"github.com/resellerhub/resellerhub/internal/config"
	"github.com/resellerhub/resellerhub/internal/groq"
	"github.com/resellerhub/resellerhub/internal/lib/jwt"
	"github.com/resellerhub/resellerhub/internal/lib/rabbitmq"
	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/migrations"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/oauth"
	"github.com/resellerhub/resellerhub/internal/services/ai"
	"github.com/resellerhub/resellerhub/internal/services/analytics"
	"github.com/resellerhub/resellerhub/internal/services/auth"
	"github.com/resellerhub/resellerhub/internal/services/payment"
	"github.com/resellerhub/resellerhub/internal/services/product"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// App приложение с HTTP-сервером и подключениями к инфраструктуре.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует приложение по конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	// Кеш опционален: без Redis дашборд считается из базы на каждый запрос.
	var analyticsCache analytics.Cache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		analyticsCache = cacheRedis
	}

	// Брокер опционален: без RabbitMQ события платежей не публикуются.
	var publisher payment.Publisher
	if cfg.RabbitURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitExchange)
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch, cfg.RabbitExchange)
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := auth.NewAuthService(db, jwtMaker)
	paymentService := payment.New(db, publisher, models.BankInfo{
		Bank:   cfg.BankName,
		Number: cfg.AccountNumber,
		Name:   cfg.AccountName,
	}, logger)
	analyticsService := analytics.New(db, analyticsCache, logger)
	productService := product.New(db, analyticsService)
	aiService := ai.New(groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqTimeout), logger)
	oauthClient := oauth.NewGoogleClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Payment:      paymentService,
		Product:      productService,
		Analytics:    analyticsService,
		AI:           aiService,
		Plans:        db,
		JWTMaker:     jwtMaker,
		OAuth:        oauthClient,
		DashboardURL: cfg.DashboardURL,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
