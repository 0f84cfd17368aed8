package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/MateoMinghi/via-alta-sub001/api/swagger"
	"github.com/MateoMinghi/via-alta-sub001/internal/handler"
	internalMiddleware "github.com/MateoMinghi/via-alta-sub001/internal/middleware"
	"github.com/MateoMinghi/via-alta-sub001/internal/repository"
	"github.com/MateoMinghi/via-alta-sub001/internal/service"
	"github.com/MateoMinghi/via-alta-sub001/pkg/cache"
	"github.com/MateoMinghi/via-alta-sub001/pkg/config"
	"github.com/MateoMinghi/via-alta-sub001/pkg/database"
	"github.com/MateoMinghi/via-alta-sub001/pkg/logger"
	corsmiddleware "github.com/MateoMinghi/via-alta-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/MateoMinghi/via-alta-sub001/pkg/middleware/requestid"
)

// @title Via Alta Group Generation API
// @version 1.0.0
// @description Course-section generation engine for the enrollment portal
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	cacheEnabled := false
	if cfg.Availability.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			cacheEnabled = true
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Availability.CacheTTL, logr, cacheEnabled)

	professorRepo := repository.NewProfessorRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	cycleRepo := repository.NewCycleRepository(db)

	validate := validator.New()
	policy := service.AggregationPolicy{
		MinBlockMinutes: cfg.Engine.MinBlockMinutes,
		DropShortBlocks: cfg.Engine.DropShortBlocks,
	}

	checker := service.NewConflictChecker(groupRepo, logr)
	groupSvc := service.NewGroupService(groupRepo, professorRepo, availabilityRepo, classroomRepo, cycleRepo, checker, policy, metricsSvc, validate, logr)
	generationSvc := service.NewGenerationService(groupSvc, availabilityRepo, cycleRepo, policy, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, professorRepo, cacheSvc, validate, logr)
	professorSvc := service.NewProfessorService(professorRepo, logr)
	exportSvc := service.NewExportService(groupRepo, professorRepo, classroomRepo, cycleRepo, logr)
	authSvc := service.NewAuthService(service.AuthConfig{Enabled: cfg.Auth.Enabled, JWTSecret: cfg.Auth.JWTSecret}, logr)

	groupHandler := handler.NewGroupHandler(groupSvc)
	generationHandler := handler.NewGenerationHandler(generationSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	professorHandler := handler.NewProfessorHandler(professorSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalMiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/professors", professorHandler.List)
		api.GET("/professors/:id", professorHandler.Get)
		api.GET("/professors/:id/availability", availabilityHandler.Get)
		api.GET("/professors/:id/schedule/export", exportHandler.ProfessorSchedule)

		api.GET("/groups", groupHandler.ListByCycle)
		api.GET("/groups/:id", groupHandler.Get)
		api.GET("/schedule/next-group-id", groupHandler.NextID)
		api.GET("/system/stats", metricsHandler.Stats)

		protected := api.Group("", internalMiddleware.JWT(authSvc))
		{
			protected.PUT("/professors/:id/availability", availabilityHandler.Replace)
			protected.POST("/groups", groupHandler.Create)
			protected.PUT("/groups/:id", groupHandler.Update)
			protected.POST("/generate-groups", generationHandler.Generate)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
