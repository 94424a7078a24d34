package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/gm-panel-api/api/swagger"
	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/handler"
	"github.com/noah-isme/gm-panel-api/internal/middleware"
	"github.com/noah-isme/gm-panel-api/internal/repository"
	"github.com/noah-isme/gm-panel-api/internal/service"
	"github.com/noah-isme/gm-panel-api/pkg/cache"
	"github.com/noah-isme/gm-panel-api/pkg/config"
	"github.com/noah-isme/gm-panel-api/pkg/database"
	"github.com/noah-isme/gm-panel-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gm-panel-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gm-panel-api/pkg/middleware/requestid"
)

// @title GM Panel API
// @version 1.0.0
// @description Game operations panel with an audit-logged mutation pipeline
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional; the panel degrades to uncached reads without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, list caching disabled", "error", err)
		redisClient = nil
	}

	metricsService := service.NewMetricsService()
	recorder := audit.NewRecorder(cfg.Audit, logr, metricsService)
	reader := audit.NewReader(recorder.Dir(), logr)
	validate := validator.New()

	authService, err := service.NewAuthService(recorder, validate, logr, service.AuthConfig{
		TokenSecret:       cfg.JWT.Secret,
		TokenExpiry:       cfg.JWT.Expiration,
		Issuer:            "gm-panel-api",
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		AdminPassword:     cfg.Admin.Password,
	})
	if err != nil {
		logr.Sugar().Fatalw("failed to init auth service", "error", err)
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	accountRepo := repository.NewAccountRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	guildRepo := repository.NewGuildRepository(db)
	itemRepo := repository.NewItemRepository(db)
	arenaRepo := repository.NewArenaRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	accountService := service.NewAccountService(accountRepo, cacheRepo, recorder, validate, logr, cfg.Cache.TTL)
	characterService := service.NewCharacterService(characterRepo, cacheRepo, recorder, validate, logr, cfg.Cache.TTL)
	guildService := service.NewGuildService(guildRepo, recorder, validate, logr)
	itemService := service.NewItemService(itemRepo, recorder, validate, logr)
	arenaService := service.NewArenaService(arenaRepo, recorder, validate, logr)
	transactionService := service.NewTransactionService(transactionRepo, recorder, validate, logr)

	authHandler := handler.NewAuthHandler(authService, cfg.Env == config.EnvProduction)
	auditHandler := handler.NewAuditHandler(reader)
	accountHandler := handler.NewAccountHandler(accountService)
	characterHandler := handler.NewCharacterHandler(characterService)
	guildHandler := handler.NewGuildHandler(guildService)
	itemHandler := handler.NewItemHandler(itemService)
	arenaHandler := handler.NewArenaHandler(arenaService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(authService))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)

	secured.GET("/audit-logs", auditHandler.List)
	secured.GET("/audit-logs/export", auditHandler.Export)

	accounts := secured.Group("/accounts", middleware.Audit(recorder, "ACCOUNT"))
	accounts.GET("", accountHandler.List)
	accounts.GET("/:id", accountHandler.Get)
	accounts.PUT("/:id", accountHandler.Update)
	accounts.DELETE("/:id", accountHandler.Delete)

	characters := secured.Group("/characters", middleware.Audit(recorder, "CHARACTER"))
	characters.GET("", characterHandler.List)
	characters.GET("/:id", characterHandler.Get)
	characters.PUT("/:id", characterHandler.Update)
	characters.DELETE("/:id", characterHandler.Delete)

	guilds := secured.Group("/guilds", middleware.Audit(recorder, "GUILD"))
	guilds.GET("", guildHandler.List)
	guilds.GET("/:id", guildHandler.Get)
	guilds.PUT("/:id", guildHandler.Update)
	guilds.DELETE("/:id", guildHandler.Delete)

	items := secured.Group("/items", middleware.Audit(recorder, "ITEM"))
	items.GET("", itemHandler.List)
	items.GET("/:id", itemHandler.Get)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	arena := secured.Group("/arena-rankings", middleware.Audit(recorder, "ARENA"))
	arena.GET("", arenaHandler.List)
	arena.PUT("/:id", arenaHandler.Update)

	transactions := secured.Group("/transactions", middleware.Audit(recorder, "TRANSACTION"))
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id/status", transactionHandler.UpdateStatus)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "audit_persistence", cfg.Audit.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
