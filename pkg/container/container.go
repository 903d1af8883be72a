package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"staybook-backend/internal/config"
	"staybook-backend/internal/infrastructure/auth"
	infraCache "staybook-backend/internal/infrastructure/cache"
	"staybook-backend/internal/infrastructure/database"
	"staybook-backend/internal/infrastructure/queue"
	"staybook-backend/internal/infrastructure/storage"
	"staybook-backend/internal/shared/middleware"
	"staybook-backend/pkg/cache"
	"staybook-backend/pkg/token"

	"staybook-backend/internal/domains/booking"
	bookingHandler "staybook-backend/internal/domains/booking/handler"
	bookingRepo "staybook-backend/internal/domains/booking/repository"
	bookingService "staybook-backend/internal/domains/booking/service"
	"staybook-backend/internal/domains/host"
	hostHandler "staybook-backend/internal/domains/host/handler"
	hostRepo "staybook-backend/internal/domains/host/repository"
	hostService "staybook-backend/internal/domains/host/service"
	"staybook-backend/internal/domains/payment"
	"staybook-backend/internal/domains/payment/gateway/chapa"
	paymentHandler "staybook-backend/internal/domains/payment/handler"
	paymentRepo "staybook-backend/internal/domains/payment/repository"
	paymentService "staybook-backend/internal/domains/payment/service"
	"staybook-backend/internal/domains/property"
	propertyHandler "staybook-backend/internal/domains/property/handler"
	propertyRepo "staybook-backend/internal/domains/property/repository"
	propertyService "staybook-backend/internal/domains/property/service"
	"staybook-backend/internal/domains/review"
	reviewHandler "staybook-backend/internal/domains/review/handler"
	reviewRepo "staybook-backend/internal/domains/review/repository"
	reviewService "staybook-backend/internal/domains/review/service"
	"staybook-backend/internal/domains/user"
	userHandler "staybook-backend/internal/domains/user/handler"
	userRepo "staybook-backend/internal/domains/user/repository"
	userService "staybook-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Initialization order is
// config, infrastructure, repositories, services, handlers; each layer only
// sees the layers beneath it.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *database.PostgresDB
	Cache      cache.Cache
	Tokens     *token.Service
	Sessions   *auth.TokenStore
	Storage    *storage.MinIOStorage
	Dispatcher *queue.Dispatcher
	Gateway    payment.Gateway

	RateLimiter *middleware.RateLimiter

	// Repositories
	UserRepo     user.Repository
	HostRepo     host.Repository
	PropertyRepo property.Repository
	BookingRepo  booking.Repository
	PaymentRepo  payment.Repository
	ReviewRepo   review.Repository

	// Services
	UserService     user.Service
	HostService     host.Service
	PropertyService property.Service
	BookingService  booking.Service
	PaymentService  payment.Service
	ReviewService   review.Service

	// Handlers
	UserHandler     *userHandler.UserHandler
	HostHandler     *hostHandler.HostHandler
	PropertyHandler *propertyHandler.PropertyHandler
	BookingHandler  *bookingHandler.BookingHandler
	PaymentHandler  *paymentHandler.PaymentHandler
	ReviewHandler   *reviewHandler.ReviewHandler

	redisCache *infraCache.RedisCache
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Configuration loaded")

	ctx := context.Background()

	// Infrastructure
	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	log.Info().Msg("PostgreSQL connected")

	c.redisCache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.redisCache.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Cache = c.redisCache
	log.Info().Msg("Redis connected")

	c.Tokens, err = token.Load(cfg.Token.PrivateKeyPath, cfg.Token.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load token keypair: %w", err)
	}

	c.Sessions = auth.NewTokenStore(c.Cache, time.Duration(cfg.Auth.SessionTTLHours)*time.Hour)

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	c.Dispatcher = queue.NewDispatcher(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	c.Gateway, err = chapa.NewClient(cfg.Chapa)
	if err != nil {
		return nil, fmt.Errorf("init payment gateway: %w", err)
	}

	c.RateLimiter = middleware.NewRateLimiter(
		c.Cache,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.Ceiling,
	)

	// Repositories
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.HostRepo = hostRepo.NewPostgresRepository(c.DB.Pool)
	c.PropertyRepo = propertyRepo.NewPostgresRepository(c.DB.Pool)
	c.BookingRepo = bookingRepo.NewPostgresRepository(c.DB.Pool)
	c.PaymentRepo = paymentRepo.NewPostgresRepository(c.DB.Pool)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(c.DB.Pool)

	// Services
	c.UserService = userService.NewUserService(
		c.UserRepo, c.Cache, c.Tokens, c.Sessions, c.Dispatcher, cfg.App.Domain)
	c.HostService = hostService.NewHostService(c.HostRepo, c.UserRepo, c.Cache, c.Storage)
	c.PropertyService = propertyService.NewPropertyService(c.PropertyRepo, c.Cache, c.UserService)
	c.BookingService = bookingService.NewBookingService(
		c.BookingRepo, c.PropertyService, c.UserService)
	c.PaymentService = paymentService.NewPaymentService(
		c.PaymentRepo, c.Gateway, c.BookingRepo, c.PropertyRepo, c.UserService,
		c.Dispatcher, cfg.Chapa.Currency)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.PropertyService)

	// Handlers
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.HostHandler = hostHandler.NewHostHandler(c.HostService)
	c.PropertyHandler = propertyHandler.NewPropertyHandler(c.PropertyService)
	c.BookingHandler = bookingHandler.NewBookingHandler(c.BookingService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)

	log.Info().Msg("Dependency container initialized")
	return c, nil
}

// HealthCheck pings the stateful dependencies.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := c.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close releases every held connection, in reverse initialization order.
func (c *Container) Close() {
	if c.Dispatcher != nil {
		if err := c.Dispatcher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close queue dispatcher")
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis connection")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("Dependency container closed")
}
