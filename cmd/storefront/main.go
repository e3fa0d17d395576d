package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/clock"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/present"
	"github.com/fjod/go_storefront/internal/publisher"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/sales"
	"github.com/fjod/go_storefront/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Config struct {
	HTTPPort        string
	Mode            string // "serve" or "console"
	CatalogURL      string
	DBPath          string
	MigrationsPath  string
	ExportDir       string
	RedisAddr       string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		Mode:            getEnv("MODE", "serve"),
		CatalogURL:      getEnv("CATALOG_URL", "http://localhost:9000/products.json"),
		DBPath:          getEnv("DB_PATH", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "internal/repository/migrations"),
		ExportDir:       getEnv("EXPORT_DIR", "receipts"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var cartCache cache.CartCache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Redis ping succeeded")
		cartCache = cache.NewRedisCache(redisClient)
	}

	catalogStore := catalog.NewMemoryStore()
	loader := catalog.NewLoader(cfg.CatalogURL, cfg.RequestTimeout)
	if err := loader.LoadInto(ctx, catalogStore); err != nil {
		// Empty catalog until the user triggers a reload.
		log.Printf("catalog load failed: %v", err)
	} else {
		log.Printf("Loaded %d products from %s", len(catalogStore.Products()), cfg.CatalogURL)
	}

	cartService := cart.NewService(repo, cartCache, catalogStore)
	salesService := sales.NewService(repo)
	checkoutService := checkout.NewService(catalogStore, cartService, salesService, clock.NewSystem())

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.KafkaBrokers != "" {
		poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers)
		go poller.Run(pollerCtx)
		log.Printf("Sales outbox poller publishing to %s", cfg.KafkaBrokers)
	}

	if cfg.Mode == "console" {
		runConsole(ctx, cartService, checkoutService, catalogStore, cfg.ExportDir)
		return
	}

	runServer(cfg, catalogStore, loader, cartService, checkoutService, salesService)
}

func runServer(cfg *Config, catalogStore catalog.Store, loader *catalog.Loader,
	cartService *cart.Service, checkoutService *checkout.Service, salesService *sales.Service) {

	productHandler := h.NewProductHandler(catalogStore, loader, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout)
	salesHandler := h.NewSalesHandler(salesService, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.List)
		r.Post("/catalog/reload", productHandler.Reload)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Post("/items/{product_id}/decrease", cartHandler.DecreaseItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/sales", salesHandler.List)
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(r, "storefront"),
	}

	go func() {
		log.Printf("Storefront listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Storefront stopped")
}

// runConsole drives the interactive session over stdin/stdout.
func runConsole(ctx context.Context, cartService *cart.Service, checkoutService *checkout.Service,
	catalogStore catalog.Store, exportDir string) {

	console := present.NewConsole(os.Stdin, os.Stdout)
	session := shop.NewSession(cartService, checkoutService, console, exportDir)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Commands: list, add <product-id>, cart, checkout, quit")
	for {
		units, err := cartService.TotalUnits(ctx)
		if err != nil {
			log.Printf("cart badge unavailable: %v", err)
		}
		fmt.Printf("[cart: %d] > ", units)
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "list":
			for _, p := range catalogStore.Products() {
				fmt.Printf("%-12s %-30s $%.2f (stock %d)\n", p.ID, p.Title, p.Price, p.Stock)
			}
		case "add":
			if len(fields) < 2 {
				fmt.Println("usage: add <product-id>")
				continue
			}
			session.AddToCart(ctx, fields[1], 1)
		case "cart":
			session.ViewCart(ctx)
		case "checkout":
			session.Checkout(ctx)
		case "quit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}
