package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack/ecommerce-api/internal/api/handler"
	"github.com/shopstack/ecommerce-api/internal/api/middleware"
	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"

	_ "github.com/shopstack/ecommerce-api/docs"
)

// Dependencies collects everything the router needs. Services are wired in
// main so the router stays a pure routing concern.
type Dependencies struct {
	Auth     ports.AuthService
	Reset    ports.PasswordResetService
	Tokens   ports.TokenValidator
	Users    ports.UserRepository
	Products ports.ProductService
	Carts    ports.CartService
	Orders   ports.OrderService

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered. The API is
// mounted twice, once per platform: /api/v1/userapp for the customer app and
// /api/v1/admin for the back office. A session token only works on the
// platform it was issued for.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ecommerce"))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	registerPlatform(e, deps, "/api/v1/userapp", domain.PlatformUserApp)
	registerPlatform(e, deps, "/api/v1/admin", domain.PlatformAdmin)

	return e
}

func registerPlatform(e *echo.Echo, deps Dependencies, prefix string, platform domain.Platform) {
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Reset, platform)
	userHandler := handler.NewUserHandler(deps.Users)
	productHandler := handler.NewProductHandler(deps.Products)
	cartHandler := handler.NewCartHandler(deps.Carts)
	orderHandler := handler.NewOrderHandler(deps.Orders)

	g := e.Group(prefix)

	// Public auth surface. The OTP reset flow is a customer-app feature;
	// back-office accounts are provisioned and recovered by an operator.
	g.POST("/auth/register", authHandler.Register)
	g.POST("/auth/login", authHandler.Login)
	if platform == domain.PlatformUserApp {
		g.POST("/auth/reset-password-otp", authHandler.RequestResetOTP)
		g.POST("/auth/validate-otp", authHandler.ValidateOTP)
		g.PUT("/auth/reset-password", authHandler.ResetPassword)
	}

	// Everything below requires a session token issued for this platform.
	authed := g.Group("", middleware.Auth(deps.Tokens, platform))

	authed.POST("/auth/logout", authHandler.Logout)

	authed.GET("/user/me", userHandler.Me)
	authed.PUT("/user/me", userHandler.Update)
	authed.DELETE("/user/me", userHandler.SoftDelete)

	authed.GET("/products", productHandler.List)
	authed.GET("/products/:id", productHandler.Get)

	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:orderNumber", orderHandler.Get)

	if platform == domain.PlatformAdmin {
		adminOnly := middleware.RBAC(domain.UserTypeAdmin)
		authed.POST("/products", productHandler.Create, adminOnly)
		authed.PUT("/products/:id", productHandler.Update, adminOnly)
		authed.DELETE("/products/:id", productHandler.Delete, adminOnly)
		authed.PUT("/orders/:orderNumber/status", orderHandler.UpdateStatus, adminOnly)
		return
	}

	// Cart and checkout only exist on the customer app.
	authed.GET("/cart", cartHandler.Get)
	authed.DELETE("/cart", cartHandler.Clear)
	authed.POST("/cart/items", cartHandler.AddItem)
	authed.PUT("/cart/items/:productId", cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:productId", cartHandler.RemoveItem)

	authed.POST("/orders", orderHandler.Place)
}
