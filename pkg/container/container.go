package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/config"
	infraCache "book-catalog-api/internal/infrastructure/cache"
	"book-catalog-api/internal/infrastructure/database"
	"book-catalog-api/pkg/cache"
	"book-catalog-api/pkg/jwt"

	authorHandler "book-catalog-api/internal/domains/author/handler"
	authorRepo "book-catalog-api/internal/domains/author/repository"
	authorService "book-catalog-api/internal/domains/author/service"
	bookHandler "book-catalog-api/internal/domains/book/handler"
	bookRepo "book-catalog-api/internal/domains/book/repository"
	bookService "book-catalog-api/internal/domains/book/service"
	reviewHandler "book-catalog-api/internal/domains/review/handler"
	reviewRepo "book-catalog-api/internal/domains/review/repository"
	reviewService "book-catalog-api/internal/domains/review/service"
	"book-catalog-api/internal/domains/root"
	userHandler "book-catalog-api/internal/domains/user/handler"
	userRepo "book-catalog-api/internal/domains/user/repository"
	userService "book-catalog-api/internal/domains/user/service"
)

const cacheKeyPrefix = "catalog:"

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application, built once at start.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         database.Connection
	Redis      *infraCache.RedisClient
	Cache      cache.Cache // nil when Redis is unreachable at start
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	AuthorRepo authorRepo.AuthorRepository
	BookRepo   bookRepo.BookRepository
	ReviewRepo reviewRepo.ReviewRepository
	UserRepo   userRepo.UserRepository

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface
	ReviewService reviewService.ServiceInterface
	UserService   userService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
	ReviewHandler *reviewHandler.ReviewHandler
	UserHandler   *userHandler.UserHandler
	RootHandler   *root.Handler

	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects the infrastructure described by cfg and wires every
// layer on top of it.
//
// Order matters:
// 1. Database (migrated when AutoMigrate is set)
// 2. Cache
// 3. Repositories, services, handlers
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container")

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Open(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.App.AutoMigrate {
		if err := database.Migrate(connectCtx, db, database.MigrateUp); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// ========================================
	// STEP 2: CACHE
	// ========================================
	// Redis failure is not critical, the service runs uncached
	rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	var c cache.Cache
	if err := rc.Connect(connectCtx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), caching disabled")
	} else {
		c = infraCache.NewRedisCache(rc.Client, cacheKeyPrefix)
	}

	container := Build(cfg, db, c)
	container.Redis = rc

	// ========================================
	// STEP 3: POOL MONITOR
	// ========================================
	if pg, ok := db.(*database.PostgresDB); ok {
		monitorCtx, stop := context.WithCancel(context.Background())
		container.stopMonitor = stop
		go pg.MonitorPoolHealth(monitorCtx, time.Minute)
	}

	log.Info().Str("driver", cfg.Database.Driver).Bool("cache", c != nil).Msg("DI container initialized")
	return container, nil
}

// Build wires repositories, services and handlers over ready infrastructure.
// c may be nil.
func Build(cfg *config.Config, db database.Connection, c cache.Cache) *Container {
	container := &Container{
		Config:     cfg,
		DB:         db,
		Cache:      c,
		JWTManager: jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry),
	}

	container.initRepositories()
	container.initServices()
	container.initHandlers()
	return container
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	gdb := c.DB.Goqu()

	c.AuthorRepo = authorRepo.NewAuthorRepository(gdb, c.Cache, c.Config.Cache.TTL)
	c.BookRepo = bookRepo.NewBookRepository(gdb, c.Cache)
	c.ReviewRepo = reviewRepo.NewReviewRepository(gdb)
	c.UserRepo = userRepo.NewUserRepository(gdb)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Config.Auth.BootstrapAdminEmail)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.RootHandler = root.NewHandler()
}

// Cleanup releases the database and Redis connections.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
