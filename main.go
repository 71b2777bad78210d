package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/monitoring"
	"taskboard/internal/services"
	"taskboard/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type application struct {
	cfg        *config.Config
	db         *gorm.DB
	redisCache *cache.RedisCache
	metrics    *monitoring.Metrics
	health     *monitoring.HealthChecker
	limiter    *middleware.RateLimiter

	authHandler  *handlers.AuthHandler
	boardHandler *handlers.BoardHandler
	listHandler  *handlers.ListHandler
	taskHandler  *handlers.TaskHandler
	userHandler  *handlers.UserHandler
}

func newApplication(cfg *config.Config, db *gorm.DB, redisCache *cache.RedisCache) *application {
	guarded := cache.NewGuardedCache(redisCache, nil)

	boardService := services.NewBoardService()
	cachedBoards := services.NewCachedBoardService(boardService, guarded)
	listService := services.NewListService()
	taskService := services.NewTaskService()
	userService := services.NewUserService()
	authService := services.NewAuthService(cfg.Auth)

	jobQueue := worker.NewJobQueue(redisCache.Client())

	health := monitoring.NewHealthChecker()
	health.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	health.Register("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	return &application{
		cfg:        cfg,
		db:         db,
		redisCache: redisCache,
		metrics:    monitoring.NewMetrics(),
		health:     health,
		limiter:    middleware.NewRateLimiter(cfg.RateLimit),

		authHandler:  handlers.NewAuthHandler(db, authService),
		boardHandler: handlers.NewBoardHandler(db, cachedBoards),
		listHandler:  handlers.NewListHandler(db, listService, cachedBoards),
		taskHandler:  handlers.NewTaskHandler(db, taskService, cachedBoards, jobQueue),
		userHandler:  handlers.NewUserHandler(db, userService),
	}
}

func (app *application) setupRouter() *gin.Engine {
	if app.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(app.metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	if app.cfg.RateLimit.Enabled {
		router.Use(app.limiter.Middleware())
	}

	router.GET("/health", app.health.Handler())
	router.GET("/metrics", app.metrics.Handler())

	router.POST("/auth/signup", app.authHandler.SignUp)
	router.POST("/auth/signin", app.authHandler.SignIn)

	router.GET("/boards/:id", app.boardHandler.GetBoard)
	router.GET("/users", app.userHandler.GetUsers)

	auth := router.Group("/", middleware.Auth(app.cfg.Auth.JWTSecret))
	{
		auth.POST("/board", app.boardHandler.CreateBoard)
		auth.DELETE("/board", app.boardHandler.DeleteBoard)
		auth.PATCH("/boards/:id", app.boardHandler.PatchBoard)
		auth.GET("/boards/workspace", app.boardHandler.GetWorkspace)

		auth.POST("/list", app.listHandler.CreateList)
		auth.PATCH("/list", app.listHandler.PatchList)
		auth.DELETE("/list", app.listHandler.DeleteList)

		auth.POST("/task", app.taskHandler.CreateTask)
		auth.PATCH("/task", app.taskHandler.PatchTask)
		auth.DELETE("/task", app.taskHandler.DeleteTask)
		auth.GET("/task", app.taskHandler.GetTasks)
	}

	return router
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	app := newApplication(cfg, db, redisCache)

	jobWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient: redisCache.Client(),
		Queues:      cfg.Worker.Queues,
	})
	jobWorker.RegisterHandler(worker.JobTypeDueDateReminder, func(ctx context.Context, job *worker.Job) error {
		log.Printf("Reminder: task %v (%v) is due at %v",
			job.Payload["task_id"], job.Payload["title"], job.Payload["due_at"])
		return nil
	})
	jobWorker.Start(cfg.Worker.Concurrency)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      app.setupRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	jobWorker.Stop()
	app.limiter.Stop()

	if err := redisCache.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	if err := database.Close(db); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}
