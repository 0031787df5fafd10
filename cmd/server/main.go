package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/adminauth"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/app"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/app/handlers"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/config"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/lib/logger"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/lib/logger/handlers/urllog"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/lib/render"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

func main() {
	// переменные окружения из .env, если он есть
	_ = godotenv.Load()

	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	renderer, err := render.New(log, cfg.Store.TemplatesDir)
	if err != nil {
		log.Error("failed to load templates", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to load templates"))
	}

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	// платежный провайдер: ключи могут отсутствовать, тогда оформление заказа
	// отвечает 503 на каждый запрос, а webhook принимает события без проверки подписи
	provider := payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Store.BaseURL)

	catalogService := service.NewCatalogService(log, productRepo)
	checkoutService := service.NewCheckoutService(log, productRepo, orderRepo, provider, cfg.Store.Currency)
	webhookService := service.NewWebhookService(log, orderRepo, provider)
	uploadService := service.NewUploadService(log, cfg.Store.UploadDir)
	adminService := service.NewAdminService(log, productRepo, orderRepo)

	// публичная витрина
	router.Get("/", handlers.CatalogPageHandler(log, catalogService, renderer, cfg.Store.Currency))
	router.Get("/product/{sku}", handlers.ProductPageHandler(log, catalogService, renderer, cfg.Store.Currency))
	router.Get("/cart", handlers.CartPageHandler(renderer, cfg.Store.Currency))
	router.Get("/success", handlers.SuccessPageHandler(renderer))
	router.Get("/config", handlers.ConfigHandler(log, cfg.Stripe.PublishableKey, cfg.Store.Currency))

	// оформление заказа и webhook провайдера: тело webhook читается сырым,
	// общие парсеры тела к этому маршруту не применяются
	router.Post("/api/checkout", handlers.CheckoutHandler(log, checkoutService))
	router.Post("/webhook", handlers.WebhookHandler(log, webhookService))

	// загруженные изображения
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Store.UploadDir)))
	router.Get("/uploads/*", uploadsFS.ServeHTTP)

	// админка целиком за Basic-аутентификацией
	router.Group(func(r chi.Router) {
		r.Use(adminauth.Middleware(cfg.Admin.Username, cfg.Admin.Password))
		r.Get("/admin", handlers.AdminProductsHandler(log, adminService, renderer))
		r.Get("/admin/orders", handlers.AdminOrdersHandler(log, adminService, renderer))
		r.Get("/admin/new", handlers.AdminNewFormHandler(renderer))
		r.Post("/admin/new", handlers.AdminCreateHandler(log, adminService, uploadService, renderer))
		r.Get("/admin/edit/{id}", handlers.AdminEditFormHandler(log, adminService, renderer))
		r.Post("/admin/edit/{id}", handlers.AdminUpdateHandler(log, adminService, uploadService, renderer))
		r.Post("/admin/delete/{id}", handlers.AdminDeleteHandler(log, adminService))
	})

	// все несовпавшие маршруты - страница 404
	router.NotFound(handlers.NotFoundHandler(renderer))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
