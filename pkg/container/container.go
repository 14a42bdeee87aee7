package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookstore-api/internal/config"
	infraCache "bookstore-api/internal/infrastructure/cache"
	"bookstore-api/internal/infrastructure/database"
	"bookstore-api/pkg/cache"
	"bookstore-api/pkg/jwt"
	"bookstore-api/pkg/logger"

	"bookstore-api/internal/domains/user"
	userHandler "bookstore-api/internal/domains/user/handler"
	userRepo "bookstore-api/internal/domains/user/repository"
	userService "bookstore-api/internal/domains/user/service"

	bookHandler "bookstore-api/internal/domains/book/handler"
	bookRepo "bookstore-api/internal/domains/book/repository"
	bookService "bookstore-api/internal/domains/book/service"

	genreHandler "bookstore-api/internal/domains/genre/handler"
	genreRepo "bookstore-api/internal/domains/genre/repository"
	genreService "bookstore-api/internal/domains/genre/service"

	orderHandler "bookstore-api/internal/domains/order/handler"
	orderRepo "bookstore-api/internal/domains/order/repository"
	orderService "bookstore-api/internal/domains/order/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup; initialization runs config first, then
// infrastructure, repositories, services, and handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo  user.Repository
	BookRepo  bookRepo.BookRepository
	GenreRepo genreRepo.GenreRepository
	OrderRepo orderRepo.OrderRepository

	UserService  user.Service
	BookService  bookService.BookService
	GenreService genreService.GenreService
	OrderService orderService.OrderService

	UserHandler  *userHandler.UserHandler
	BookHandler  *bookHandler.BookHandler
	GenreHandler *genreHandler.GenreHandler
	OrderHandler *orderHandler.OrderHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	dbConfig, err := config.LoadDatabaseConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	// Redis is non-critical: a failed connection degrades to cache misses.
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			logger.Warn("redis connection failed, running without cache", err)
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.ExpiryMinutes)*time.Minute,
	)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.GenreRepo = genreRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.BookService = bookService.NewBookService(c.BookRepo, c.GenreRepo)
	c.GenreService = genreService.NewGenreService(c.GenreRepo, c.BookRepo)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.BookRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.GenreHandler = genreHandler.NewGenreHandler(c.GenreService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
}

// Cleanup releases pooled connections. Called on graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("failed to close redis: %v", err)
			}
		}
	}
}
