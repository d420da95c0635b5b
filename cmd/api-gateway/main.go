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

	_ "github.com/campushq/timetable-api/api/swagger"
	"github.com/campushq/timetable-api/internal/handler"
	"github.com/campushq/timetable-api/internal/middleware"
	"github.com/campushq/timetable-api/internal/models"
	"github.com/campushq/timetable-api/internal/repository"
	"github.com/campushq/timetable-api/internal/service"
	"github.com/campushq/timetable-api/pkg/cache"
	"github.com/campushq/timetable-api/pkg/config"
	"github.com/campushq/timetable-api/pkg/database"
	"github.com/campushq/timetable-api/pkg/logger"
	corsmiddleware "github.com/campushq/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/timetable-api/pkg/middleware/requestid"
)

// @title CampusHQ Timetable API
// @version 0.1.0
// @description Timetable generation and publishing service
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	prefRepo := repository.NewFacultyPreferenceRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	authSvc := service.NewAuthService(cfg.JWT.Secret)
	generatorSvc := service.NewTimetableGeneratorService(subjectRepo, prefRepo, validate, logr, metricsSvc, service.GeneratorConfig{
		ProposalTTL: cfg.Generator.ProposalTTL,
	})
	lifecycleSvc := service.NewTimetableLifecycleService(timetableRepo, generatorSvc, cacheSvc, validate, logr, metricsSvc)

	generatorHandler := handler.NewTimetableGeneratorHandler(generatorSvc)
	timetableHandler := handler.NewTimetableHandler(lifecycleSvc)
	facultyHandler := handler.NewFacultyHandler(facultyRepo)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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

	auth := middleware.JWT(authSvc)
	admin := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	// Published timetables are campus-wide reads; GETs take an optional token
	// so students see them without logging in, while mutations stay admin-only.
	timetables := api.Group("/timetables")
	{
		timetables.POST("/generate", auth, admin, generatorHandler.Generate)
		timetables.POST("/assign-faculty", auth, admin, generatorHandler.AssignFaculty)
		timetables.POST("", auth, admin, timetableHandler.Create)
		timetables.POST("/:id/publish", auth, admin, timetableHandler.Publish)
		timetables.GET("", middleware.OptionalJWT(authSvc), timetableHandler.List)
		timetables.GET("/:id", middleware.OptionalJWT(authSvc), timetableHandler.Get)
		timetables.GET("/:id/conflicts", auth, admin, timetableHandler.Conflicts)
	}

	api.GET("/faculties/:id", auth, facultyHandler.Get)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
