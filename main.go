package main

import (
	"context"
	"log"
	"os"

	"github.com/example/cityshades/config"
	"github.com/example/cityshades/modules/api"
	"github.com/example/cityshades/modules/auth"
	"github.com/example/cityshades/modules/catalog"
	"github.com/example/cityshades/modules/datastore"
	"github.com/example/cityshades/modules/marketing"
	"github.com/example/cityshades/modules/notification"
	"github.com/example/cityshades/modules/order"
	"github.com/example/cityshades/modules/ratelimit"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== CITYSHADES Storefront ===")

	cfg := config.Load()
	log.Printf("HTTP Port: %d", cfg.Port)
	log.Printf("Store Driver: %s", cfg.Store.Driver)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Modules implementing UsePluginModule receive the store as "datastore"
	storePlugin := datastore.NewPluginModule(cfg.Store, logger)
	if err := app.RegisterPlugin(storePlugin, "datastore"); err != nil {
		log.Fatalf("Failed to register datastore plugin: %v", err)
	}

	notificationModule := notification.NewModule(logger)
	catalogModule := catalog.NewModule(cfg.Catalog, logger)
	orderModule := order.NewModule(cfg.Checkout, logger)
	marketingModule := marketing.NewModule(logger)
	authModule := auth.NewModule(cfg.Auth, logger)
	apiModule := api.NewModule(cfg.Port, logger)

	apiModule.AddHealthCheck("datastore", storePlugin)
	apiModule.AddHealthCheck("catalog", catalogModule)
	apiModule.AddHealthCheck("order", orderModule)
	apiModule.AddHealthCheck("auth", authModule)

	// Order: independent modules first, then dependent modules
	app.Register(notificationModule)
	app.Register(catalogModule)
	app.Register(orderModule)
	app.Register(marketingModule)
	app.Register(authModule)

	if cfg.RateLimit.Enabled() {
		rateLimitModule := ratelimit.NewModule(cfg.RateLimit, logger)
		app.Register(rateLimitModule) // must start before the api module
		apiModule.SetRateLimitModule(rateLimitModule)
		apiModule.AddHealthCheck("ratelimit", rateLimitModule)
	} else {
		log.Println("REDIS_ADDR not set, rate limiting disabled")
	}

	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.Port)
	log.Println("")
	log.Println("  Storefront:")
	log.Println("  GET    /products               - List products (category, gender, bestseller, new, search, sort, limit, offset)")
	log.Println("  GET    /products/:id           - Get a product")
	log.Println("  GET    /categories             - List categories with counts")
	log.Println("  GET    /bestsellers            - Featured bestsellers")
	log.Println("  GET    /newarrivals            - Featured new arrivals")
	log.Println("  POST   /cart/quote             - Price cart lines")
	log.Println("  POST   /orders                 - Place an order")
	log.Println("  GET    /orders/:orderNumber    - Look up an order")
	log.Println("  POST   /subscribe              - Newsletter signup")
	log.Println("  POST   /contact                - Send a contact message")
	log.Println("  POST   /auth/login             - Login and get a token")
	log.Println("  GET    /health                 - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /auth/me                - Current user")
	log.Println("  *      /admin/products[/:id]   - Product management (admin)")
	log.Println("  GET    /admin/orders           - All orders (admin)")
	log.Println("  GET    /admin/subscribers      - Newsletter subscribers (admin)")
	log.Println("  GET    /admin/messages         - Contact messages (admin)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
