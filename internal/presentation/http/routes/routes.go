package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/salesledger/internal/config"
	domainRepo "github.com/sangkips/salesledger/internal/domain/repository"
	"github.com/sangkips/salesledger/internal/presentation/http/handler"
	"github.com/sangkips/salesledger/internal/presentation/http/middleware"
	"github.com/sangkips/salesledger/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Discount  *handler.DiscountHandler
	Sale      *handler.SaleHandler
	Profit    *handler.ProfitHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Public routes
		registerAuthRoutes(v1, h, deps)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := v1.Group("/auth")
	auth.Use(deps.RateLimiter.Middleware())
	{
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.GetProfile)
	protected.GET("/sellers", h.Auth.ListSellers)
	protected.GET("/dashboard", h.Dashboard.GetStats)

	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerLocationRoutes(protected, h)
	registerDiscountRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerProfitRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/stock", h.Product.AdjustStock)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerLocationRoutes(protected *gin.RouterGroup, h *Handlers) {
	locations := protected.Group("/locations")
	{
		locations.GET("", h.Customer.ListLocations)
		locations.POST("", h.Customer.CreateLocation)
		locations.GET("/:id", h.Customer.GetLocation)
		locations.PUT("/:id", h.Customer.UpdateLocation)
		locations.DELETE("/:id", h.Customer.DeleteLocation)
	}
}

func registerDiscountRoutes(protected *gin.RouterGroup, h *Handlers) {
	discounts := protected.Group("/discounts")
	{
		discounts.GET("", h.Discount.List)
		discounts.POST("", h.Discount.Create)
		discounts.GET("/:id", h.Discount.Get)
		discounts.PUT("/:id", h.Discount.Update)
		discounts.DELETE("/:id", h.Discount.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/export.xlsx", h.Sale.ExportXLSX)
		sales.GET("/export.csv", h.Sale.ExportCSV)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id/status", h.Sale.UpdateStatus)

		// Sale creation and import move stock, so retries must replay
		writes := sales.Group("")
		writes.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:        deps.IdempotencyRepo,
			Required:    deps.Cfg.Idempotency.Required,
			MaxBodySize: deps.Cfg.Import.UploadMaxSize,
		}))
		writes.POST("", h.Sale.Create)
		writes.POST("/import", h.Sale.Import)
	}
}

func registerProfitRoutes(protected *gin.RouterGroup, h *Handlers) {
	profits := protected.Group("/profits")
	{
		profits.GET("/summary", h.Profit.Summary)
		profits.GET("/products", h.Profit.ByProduct)
		profits.GET("/products/:id", h.Profit.ProductDetail)
		profits.GET("/recent", h.Profit.Recent)
		profits.GET("/daily", h.Profit.Daily)
		profits.GET("/today", h.Profit.Today)
	}
}
