package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopstack/ecommerce-api/internal/api"
	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
	"github.com/shopstack/ecommerce-api/internal/core/service"
	"github.com/shopstack/ecommerce-api/internal/infrastructure/config"
	mongodb "github.com/shopstack/ecommerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shopstack/ecommerce-api/internal/infrastructure/db/redis"
	"github.com/shopstack/ecommerce-api/internal/infrastructure/mail"
	"github.com/shopstack/ecommerce-api/internal/infrastructure/queue"
	"github.com/shopstack/ecommerce-api/pkg/logger"
)

// @title        Ecommerce API
// @version      1.0
// @description  E-commerce backend with platform-scoped authentication, catalog, cart and orders.
// @BasePath     /api/v1/userapp
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := domain.ValidateLoginAccess(); err != nil {
		log.Fatal().Err(err).Msg("invalid login access table")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	cartRepo := mongodb.NewCartRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)

	indexCtx, cancelIndexes := context.WithTimeout(ctx, 30*time.Second)
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		tokenRepo.EnsureIndexes,
		productRepo.EnsureIndexes,
		cartRepo.EnsureIndexes,
		orderRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			cancelIndexes()
			log.Fatal().Err(err).Msg("ensure indexes")
		}
	}
	cancelIndexes()

	var mailer ports.Mailer
	switch cfg.Mail.Driver {
	case "ses":
		mailer, err = mail.NewSESMailer(ctx, cfg.Mail.Region, cfg.Mail.FromAddress, log)
		if err != nil {
			log.Fatal().Err(err).Msg("init ses mailer")
		}
	default:
		mailer = mail.NewLogMailer(log)
	}

	dispatcherCtx, stopDispatcher := context.WithCancel(ctx)
	defer stopDispatcher()
	dispatcher := queue.NewDispatcher(0, mailer, log)
	dispatcher.Start(dispatcherCtx)

	secrets := map[domain.Platform]string{
		domain.PlatformUserApp: cfg.Auth.UserAppSecret,
		domain.PlatformAdmin:   cfg.Auth.AdminSecret,
	}

	throttle := service.NewLoginThrottle(userRepo, cfg.Auth.MaxLoginRetries, cfg.Auth.LoginReactiveTime)
	issuer := service.NewTokenIssuer(tokenRepo, userRepo, secrets, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(userRepo, tokenRepo, throttle, issuer, log)
	otpLimiter := redisdb.NewOTPLimiter(rdb, cfg.Auth.OTPRequestCooldown)
	resetService := service.NewPasswordResetService(userRepo, mailer, otpLimiter, cfg.Auth.OTPExpireTime, log)
	productService := service.NewProductService(productRepo, log)
	cartService := service.NewCartService(cartRepo, productRepo, log)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Reset:    resetService,
		Tokens:   issuer,
		Users:    userRepo,
		Products: productService,
		Carts:    cartService,
		Orders:   orderService,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	stopDispatcher()
}
