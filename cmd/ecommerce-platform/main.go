package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/api/handlers"
	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	"github.com/cooleo273/ecommerce-platform/internal/cache"
	"github.com/cooleo273/ecommerce-platform/internal/config"
	"github.com/cooleo273/ecommerce-platform/internal/events"
	"github.com/cooleo273/ecommerce-platform/internal/health"
	"github.com/cooleo273/ecommerce-platform/internal/metrics"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/cooleo273/ecommerce-platform/internal/telemetry"
	"github.com/cooleo273/ecommerce-platform/pkg/chapa"
	"github.com/cooleo273/ecommerce-platform/pkg/sendgrid"
	"github.com/cooleo273/ecommerce-platform/pkg/stripe"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "ecommerce-platform"

func main() {

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, serviceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("failed to close database connection", slog.Any("error", err))
		}
	}()

	if err := repository.RunMigrations(repos.DB); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Host,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}

	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer productCache.Close()

	publisher := events.NewNoopPublisher()

	if cfg.RabbitMQ.Enabled {
		publisher, err = events.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			slog.Error("failed to connect to rabbitmq", slog.Any("error", err))
			os.Exit(1)
		}
	}

	defer publisher.Close()

	jwtKey := []byte(cfg.Security.JWTKey)
	chapaClient := chapa.NewClient(cfg.Chapa.APIURL, cfg.Chapa.SecretKey, cfg.Chapa.WebhookSecret)
	stripeClient := stripe.NewClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	userService := service.NewUserService(repos.User, jwtKey, cfg.Security.TokenTTL)
	productService := service.NewProductService(repos.Catalog, productCache)
	cartService := service.NewCartService(repos.Cart, repos.Catalog)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Address, publisher, &cfg.Checkout)
	reconciler := service.NewPaymentReconciler(repos.Order, repos.Cart, repos.User, emailService, publisher)
	paymentService := service.NewPaymentService(repos.Order, repos.Cart, repos.User, chapaClient,
		stripeClient, reconciler, &cfg.Chapa, &cfg.Stripe, &cfg.Checkout)
	webhookService := service.NewWebhookService(repos.Order, chapaClient, stripeClient, reconciler)
	addressService := service.NewAddressService(repos.Address)
	wishlistService := service.NewWishlistService(repos.Wishlist, repos.Catalog)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	addressHandler := handlers.NewAddressHandler(addressService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)
	loginLimiter := middleware.NewRateLimiter(redisClient, &cfg.RateLimit)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:          repos.DB,
		RedisClient: redisClient,
	})
	if err != nil {
		slog.Error("failed to set up health checks", slog.Any("error", err))
		os.Exit(1)
	}

	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", loginLimiter.Limit("login", userHandler.Login()))
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.List())
	routerMux.HandleFunc("GET /api/v1/products/suggest", productHandler.Suggest())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.Get())
	routerMux.HandleFunc("GET /api/v1/categories", productHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/brands", productHandler.ListBrands())

	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.Get()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{itemId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.Clear()))

	routerMux.HandleFunc("POST /api/v1/checkout/order", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.List()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.Get()))

	routerMux.HandleFunc("POST /api/v1/payments/initialize", authMiddleware.Authenticate(paymentHandler.Initialize()))
	routerMux.HandleFunc("GET /api/v1/payments/verify/{txRef}", authMiddleware.Authenticate(paymentHandler.Verify()))
	routerMux.HandleFunc("POST /api/v1/payments/intent", authMiddleware.Authenticate(paymentHandler.CreateIntent()))

	routerMux.HandleFunc("POST /api/v1/webhooks/chapa", webhookHandler.Chapa())
	routerMux.HandleFunc("POST /api/v1/webhooks/stripe", webhookHandler.Stripe())

	routerMux.HandleFunc("POST /api/v1/addresses", authMiddleware.Authenticate(addressHandler.Create()))
	routerMux.HandleFunc("GET /api/v1/addresses", authMiddleware.Authenticate(addressHandler.List()))
	routerMux.HandleFunc("PUT /api/v1/addresses/{id}", authMiddleware.Authenticate(addressHandler.Update()))
	routerMux.HandleFunc("DELETE /api/v1/addresses/{id}", authMiddleware.Authenticate(addressHandler.Delete()))
	routerMux.HandleFunc("PATCH /api/v1/addresses/{id}/default", authMiddleware.Authenticate(addressHandler.SetDefault()))

	routerMux.HandleFunc("GET /api/v1/wishlist", authMiddleware.Authenticate(wishlistHandler.Get()))
	routerMux.HandleFunc("POST /api/v1/wishlist", authMiddleware.Authenticate(wishlistHandler.Add()))
	routerMux.HandleFunc("POST /api/v1/wishlist/toggle", authMiddleware.Authenticate(wishlistHandler.Toggle()))
	routerMux.HandleFunc("DELETE /api/v1/wishlist/{productId}", authMiddleware.Authenticate(wishlistHandler.Remove()))
	routerMux.HandleFunc("GET /api/v1/wishlist/check", authMiddleware.Authenticate(wishlistHandler.Check()))

	routerMux.HandleFunc("POST /api/v1/admin/products", authMiddleware.RequireAdmin(productHandler.Create()))
	routerMux.HandleFunc("PUT /api/v1/admin/products/{id}", authMiddleware.RequireAdmin(productHandler.Update()))
	routerMux.HandleFunc("DELETE /api/v1/admin/products/{id}", authMiddleware.RequireAdmin(productHandler.Delete()))
	routerMux.HandleFunc("POST /api/v1/admin/categories", authMiddleware.RequireAdmin(productHandler.CreateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/admin/categories/{id}", authMiddleware.RequireAdmin(productHandler.DeleteCategory()))
	routerMux.HandleFunc("POST /api/v1/admin/brands", authMiddleware.RequireAdmin(productHandler.CreateBrand()))
	routerMux.HandleFunc("DELETE /api/v1/admin/brands/{id}", authMiddleware.RequireAdmin(productHandler.DeleteBrand()))
	routerMux.HandleFunc("GET /api/v1/admin/orders", authMiddleware.RequireAdmin(orderHandler.ListAll()))
	routerMux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", authMiddleware.RequireAdmin(orderHandler.UpdateStatus()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, serviceName)

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("server starting", slog.String("address", cfg.Addr), slog.String("env", cfg.Env))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("failed to start server", slog.Any("error", err))
		}
	}()

	<-done

	slog.Warn("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown encountered an issue", slog.Any("error", err))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to flush traces", slog.Any("error", err))
	}

	slog.Info("server stopped")
}
