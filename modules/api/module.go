package api

import (
	"context"
	"fmt"

	"github.com/example/cityshades/modules/auth"
	"github.com/example/cityshades/modules/catalog"
	"github.com/example/cityshades/modules/marketing"
	"github.com/example/cityshades/modules/order"
	"github.com/example/cityshades/modules/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the storefront HTTP module.
type APIModule struct {
	port            int
	app             *fiber.App
	catalog         catalog.CatalogPort
	orders          order.OrderPort
	marketing       marketing.MarketingPort
	auth            auth.AuthPort
	rateLimitModule *ratelimit.Module
	healthChecks    map[string]mono.HealthCheckableModule
	logger          types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on port.
func NewModule(port int, logger types.Logger) *APIModule {
	return &APIModule{
		port:         port,
		healthChecks: make(map[string]mono.HealthCheckableModule),
		logger:       logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"catalog", "order", "marketing", "auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalog = catalog.NewCatalogAdapter(container)
	case "order":
		m.orders = order.NewOrderAdapter(container)
	case "marketing":
		m.marketing = marketing.NewMarketingAdapter(container)
	case "auth":
		m.auth = auth.NewAuthAdapter(container)
	}
}

// SetRateLimitModule enables rate limiting on the write endpoints.
// The module must be registered before the api module.
func (m *APIModule) SetRateLimitModule(rlm *ratelimit.Module) {
	m.rateLimitModule = rlm
}

// AddHealthCheck includes a module in the GET /health report.
func (m *APIModule) AddHealthCheck(name string, check mono.HealthCheckableModule) {
	m.healthChecks[name] = check
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.catalog == nil || m.orders == nil || m.marketing == nil || m.auth == nil {
		return fmt.Errorf("api dependencies not set")
	}

	m.app = m.newApp()

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err.Error())
		}
	}()

	m.logger.Info("HTTP server started", "port", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// newApp builds the Fiber app with middleware and routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "CITYSHADES",
		DisableStartupMessage: true,
		ErrorHandler:          newErrorHandler(m.logger),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-Total-Count, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After",
	}))

	m.setupRoutes(app)
	return app
}

// setupRoutes configures all API routes. Every path ends with a catch-all
// so that unsupported verbs get 405 instead of 404.
func (m *APIModule) setupRoutes(app *fiber.App) {
	h := NewHandlers(m.catalog, m.orders, m.marketing, m.auth)
	authenticated := AuthMiddleware(m.auth)
	admin := RequireAdmin()
	limited := m.rateLimiter()

	app.Get("/health", m.healthHandler)
	app.All("/health", methodNotAllowed)

	// Catalog
	app.Get("/products", h.ListProducts)
	app.Post("/products", authenticated, admin, h.CreateProduct)
	app.All("/products", methodNotAllowed)
	app.Get("/products/:id", h.GetProduct)
	app.All("/products/:id", methodNotAllowed)
	app.Get("/categories", h.ListCategories)
	app.All("/categories", methodNotAllowed)
	app.Get("/bestsellers", h.Bestsellers)
	app.All("/bestsellers", methodNotAllowed)
	app.Get("/newarrivals", h.NewArrivals)
	app.All("/newarrivals", methodNotAllowed)

	// Checkout
	app.Post("/orders", limited, h.PlaceOrder)
	app.All("/orders", methodNotAllowed)
	app.Get("/orders/:orderNumber", h.GetOrder)
	app.All("/orders/:orderNumber", methodNotAllowed)
	app.Post("/cart/quote", h.QuoteCart)
	app.All("/cart/quote", methodNotAllowed)

	// Marketing
	app.Post("/subscribe", limited, h.Subscribe)
	app.All("/subscribe", methodNotAllowed)
	app.Post("/contact", limited, h.Contact)
	app.All("/contact", methodNotAllowed)

	// Auth
	app.Post("/auth/login", limited, h.Login)
	app.All("/auth/login", methodNotAllowed)
	app.Get("/auth/me", authenticated, h.Me)
	app.All("/auth/me", methodNotAllowed)

	// Admin panel
	adminRoutes := app.Group("/admin", authenticated, admin)
	adminRoutes.Get("/products", h.ListAllProducts)
	adminRoutes.Post("/products", h.CreateProduct)
	adminRoutes.All("/products", methodNotAllowed)
	adminRoutes.Get("/products/:id", h.GetProduct)
	adminRoutes.Put("/products/:id", h.UpdateProduct)
	adminRoutes.Delete("/products/:id", h.DeleteProduct)
	adminRoutes.All("/products/:id", methodNotAllowed)
	adminRoutes.Get("/orders", h.ListOrders)
	adminRoutes.All("/orders", methodNotAllowed)
	adminRoutes.Get("/subscribers", h.ListSubscribers)
	adminRoutes.All("/subscribers", methodNotAllowed)
	adminRoutes.Get("/messages", h.ListMessages)
	adminRoutes.All("/messages", methodNotAllowed)
}

// rateLimiter returns the rate limit middleware, or a pass-through when
// rate limiting is not configured.
func (m *APIModule) rateLimiter() fiber.Handler {
	if m.rateLimitModule != nil {
		if mw := m.rateLimitModule.Middleware(); mw != nil {
			return mw.Handler()
		}
		m.logger.Warn("Rate limit module not started, write endpoints are not limited")
	}
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}

// ModuleHealth is one entry of the GET /health report.
type ModuleHealth struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules"`
}

// healthHandler reports 200 when every registered check is healthy, 503 otherwise.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "healthy", Modules: make(map[string]ModuleHealth, len(m.healthChecks))}
	for name, check := range m.healthChecks {
		hs := check.Health(c.UserContext())
		resp.Modules[name] = ModuleHealth{Healthy: hs.Healthy, Message: hs.Message, Details: hs.Details}
		if !hs.Healthy {
			resp.Status = "degraded"
		}
	}

	status := fiber.StatusOK
	if resp.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
