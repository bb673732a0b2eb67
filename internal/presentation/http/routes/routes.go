package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/config"
	domainRepo "github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/internal/presentation/http/handler"
	"github.com/sangkips/investify-pos/internal/presentation/http/middleware"
	"github.com/sangkips/investify-pos/pkg/utils"
)

// Roles allowed to read the sale journal
var managerRoles = []string{"manager", "admin", "super-admin"}

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health      *handler.HealthHandler
	Checkout    *handler.CheckoutHandler
	PendingSale *handler.PendingSaleHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.CashierRateLimiter
	Log             zerolog.Logger
}

// NewRateLimiter builds the per-cashier limiter from config.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.CashierRateLimiter {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return middleware.NewCashierRateLimiter(rl)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.BranchMiddleware(deps.Cfg.Terminal.BranchID))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerCheckoutRoutes(protected, h, deps)
		registerPendingSaleRoutes(protected, h)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func registerCheckoutRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := rg.Group("/checkout/sessions")
	{
		sessions.POST("", middleware.RequireBranch(), h.Checkout.OpenSession)
		sessions.GET("/:id", h.Checkout.GetSession)
		sessions.DELETE("/:id", h.Checkout.CloseSession)
		sessions.GET("/:id/events", h.Checkout.Events)
		sessions.GET("/:id/products", h.Checkout.Products)

		sessions.POST("/:id/scan", h.Checkout.Scan)
		sessions.POST("/:id/items", h.Checkout.AddItem)
		sessions.PUT("/:id/items/:productId", h.Checkout.UpdateQuantity)
		sessions.DELETE("/:id/items/:productId", h.Checkout.RemoveItem)

		sessions.POST("/:id/discount", h.Checkout.ApplyDiscount)
		sessions.DELETE("/:id/discount", h.Checkout.RemoveDiscount)
		sessions.POST("/:id/customer", h.Checkout.SelectCustomer)
		sessions.DELETE("/:id/customer", h.Checkout.ClearCustomer)
		sessions.PUT("/:id/points", h.Checkout.RedeemPoints)

		sessions.POST("/:id/payments", h.Checkout.AddPayment)
		sessions.DELETE("/:id/payments/:method", h.Checkout.RemovePayment)

		submit := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
			Log:  deps.Log,
		})
		sessions.POST("/:id/submit", submit, h.Checkout.Submit)
		sessions.DELETE("/:id/banner", h.Checkout.DismissBanner)
	}
}

func registerPendingSaleRoutes(rg *gin.RouterGroup, h *Handlers) {
	pending := rg.Group("/pending-sales")
	pending.Use(middleware.RequireRole(managerRoles...))
	{
		pending.GET("", h.PendingSale.List)
	}
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", middleware.RequireRole(managerRoles...), h.Printer.TestPrint)
	}
}
