package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/scheduler-api/api/swagger"
	"github.com/campushq/scheduler-api/internal/handler"
	"github.com/campushq/scheduler-api/internal/middleware"
	"github.com/campushq/scheduler-api/internal/models"
	"github.com/campushq/scheduler-api/internal/repository"
	"github.com/campushq/scheduler-api/internal/service"
	"github.com/campushq/scheduler-api/pkg/cache"
	"github.com/campushq/scheduler-api/pkg/config"
	"github.com/campushq/scheduler-api/pkg/database"
	"github.com/campushq/scheduler-api/pkg/logger"
	corsmiddleware "github.com/campushq/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/scheduler-api/pkg/middleware/requestid"
)

// @title Campus Scheduler API
// @version 1.0.0
// @description Timetable and exam-schedule conflict detection service
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

	grid, err := buildPeriodGrid(cfg.Scheduling.Periods)
	if err != nil {
		logr.Sugar().Fatalw("invalid period grid", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
	}

	validate := validator.New()

	timetableRepo := repository.NewTimetableRepository(db)
	examRepo := repository.NewExamRepository(db)
	examEntryRepo := repository.NewExamScheduleRepository(db)

	timetableSvc := service.NewTimetableService(timetableRepo, grid, cacheSvc, metricsSvc, validate, logr)
	examSvc := service.NewExamService(examRepo, examEntryRepo, cfg.Scheduling.CoreSubjectCount, validate, logr)
	examScheduleSvc := service.NewExamScheduleService(examEntryRepo, examRepo, cfg.Scheduling.ExamMinDurationMins, cfg.Scheduling.ExamMaxDurationMins, metricsSvc, validate, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(timetableSvc, logr)
	}

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	examHandler := handler.NewExamHandler(examSvc)
	examScheduleHandler := handler.NewExamScheduleHandler(examScheduleSvc)
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
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/periods", timetableHandler.Periods)

		api.GET("/timetable/entries", timetableHandler.List)
		api.POST("/timetable/entries", timetableHandler.Create)
		api.POST("/timetable/entries/validate", timetableHandler.Validate)
		api.PUT("/timetable/entries/:id", timetableHandler.Update)
		api.DELETE("/timetable/entries/:id", timetableHandler.Delete)
		api.POST("/timetable/copy", timetableHandler.CopyWeek)
		api.GET("/classes/:id/timetable", timetableHandler.ListByClass)
		api.GET("/classes/:id/timetable/export", timetableHandler.Export)
		api.GET("/teachers/:id/timetable", timetableHandler.ListByTeacher)

		api.GET("/exams", examHandler.List)
		api.POST("/exams", examHandler.Create)
		api.GET("/exams/:id", examHandler.Get)
		api.PUT("/exams/:id", examHandler.Update)
		api.DELETE("/exams/:id", examHandler.Delete)
		api.POST("/exams/:id/publish", examHandler.Publish)
		api.GET("/exams/:id/progress", examHandler.Progress)
		api.GET("/exams/:id/entries", examScheduleHandler.ListByExam)

		api.POST("/exam-entries", examScheduleHandler.Create)
		api.POST("/exam-entries/validate", examScheduleHandler.Validate)
		api.PUT("/exam-entries/:id", examScheduleHandler.Update)
		api.DELETE("/exam-entries/:id", examScheduleHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildPeriodGrid(defs []config.PeriodDef) (*models.PeriodGrid, error) {
	periods := make([]models.Period, 0, len(defs))
	for i, def := range defs {
		periods = append(periods, models.Period{
			Index:     i + 1,
			Label:     def.Label,
			StartTime: def.Start,
			EndTime:   def.End,
			Break:     def.Break,
		})
	}
	return models.NewPeriodGrid(periods)
}
