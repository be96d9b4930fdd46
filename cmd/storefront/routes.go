package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/httpapi"
	"github.com/matheusmosca/storefront/internal/idempotency"
	"github.com/matheusmosca/storefront/internal/services/cart"
	"github.com/matheusmosca/storefront/internal/services/catalog"
	"github.com/matheusmosca/storefront/internal/services/orders"
	"github.com/matheusmosca/storefront/internal/services/users"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

// app reúne os casos de uso montados sobre um backend.
type app struct {
	serviceName string
	backend     backend
	tokens      *auth.Tokens
	tracer      trace.TracerProvider

	orders  *orders.OrderUseCase
	catalog *catalog.CatalogUseCase
	cart    *cart.CartUseCase
	users   *users.UserUseCase
}

func newApp(
	serviceName string,
	b backend,
	tokens *auth.Tokens,
	tp trace.TracerProvider,
	metrics *telemetry.OrderMetrics,
	guard *idempotency.Guard,
) *app {
	tracer := tp.Tracer(serviceName)
	orderUC := orders.NewOrderUseCase(b, tracer, metrics, guard)
	return &app{
		serviceName: serviceName,
		backend:     b,
		tokens:      tokens,
		tracer:      tp,
		orders:      orderUC,
		catalog:     catalog.NewCatalogUseCase(b, tracer),
		cart:        cart.NewCartUseCase(b, tracer),
		users:       users.NewUserUseCase(b, orderUC, tokens, tracer),
	}
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		otelgin.Middleware(a.serviceName, otelgin.WithTracerProvider(a.tracer)),
		httpapi.RequestLogger(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": a.serviceName,
		})
	})

	protect := auth.Protect(a.tokens, a.backend)
	admin := auth.AdminOnly()

	orderHandler := orders.NewOrderHandler(a.orders)
	catalogHandler := catalog.NewCatalogHandler(a.catalog)
	cartHandler := cart.NewCartHandler(a.cart)
	userHandler := users.NewUserHandler(a.users)

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", userHandler.Register)
	authRoutes.POST("/login", userHandler.Login)
	authRoutes.GET("/profile", protect, userHandler.Profile)
	authRoutes.PUT("/profile", protect, userHandler.UpdateProfile)

	products := api.Group("/products")
	products.GET("", catalogHandler.List)
	products.GET("/categories", catalogHandler.Categories)
	products.GET("/:id", catalogHandler.Get)
	products.POST("", protect, admin, catalogHandler.Create)
	products.PUT("/:id", protect, admin, catalogHandler.Update)
	products.DELETE("/:id", protect, admin, catalogHandler.Delete)

	cartRoutes := api.Group("/cart", protect)
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("", cartHandler.Add)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.PUT("/:itemId", cartHandler.UpdateItem)
	cartRoutes.DELETE("/:itemId", cartHandler.Remove)

	orderRoutes := api.Group("/orders", protect)
	orderRoutes.POST("", orderHandler.CreateOrder)
	orderRoutes.GET("", orderHandler.GetUserOrders)
	orderRoutes.GET("/dashboard", userHandler.Dashboard)
	orderRoutes.GET("/:id", orderHandler.GetOrderByID)
	orderRoutes.POST("/:id/cancel", orderHandler.CancelOrder)

	adminOrders := orderRoutes.Group("/admin", admin)
	adminOrders.GET("/all", orderHandler.GetAllOrders)
	adminOrders.GET("/stats", orderHandler.GetOrderStats)
	adminOrders.PUT("/:id", orderHandler.UpdateOrderStatus)
	adminOrders.PUT("/:id/pay", orderHandler.UpdateOrderToPaid)
	adminOrders.PUT("/:id/deliver", orderHandler.UpdateOrderToDelivered)

	userRoutes := api.Group("/users", protect)
	userRoutes.GET("/profile", userHandler.Profile)
	userRoutes.PUT("/password", userHandler.UpdatePassword)
	userRoutes.GET("/stats", userHandler.Stats)
	userRoutes.GET("", admin, userHandler.List)
	userRoutes.GET("/:id", admin, userHandler.Get)
	userRoutes.PUT("/:id", admin, userHandler.Update)
	userRoutes.DELETE("/:id", admin, userHandler.Delete)

	return r
}
