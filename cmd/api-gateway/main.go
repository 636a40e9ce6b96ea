package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/radmosaic/rostergen-api/internal/handler"
	"github.com/radmosaic/rostergen-api/internal/middleware"
	"github.com/radmosaic/rostergen-api/internal/repository"
	"github.com/radmosaic/rostergen-api/internal/service"
	"github.com/radmosaic/rostergen-api/pkg/cache"
	"github.com/radmosaic/rostergen-api/pkg/config"
	"github.com/radmosaic/rostergen-api/pkg/database"
	"github.com/radmosaic/rostergen-api/pkg/logger"
	corsmiddleware "github.com/radmosaic/rostergen-api/pkg/middleware/cors"
	reqidmiddleware "github.com/radmosaic/rostergen-api/pkg/middleware/requestid"
)

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The result cache is an accelerator, not a dependency.
		logr.Sugar().Warnw("redis unavailable, result caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	staffRepo := repository.NewStaffRepository(db)
	shiftTypeRepo := repository.NewShiftTypeRepository(db)
	instanceRepo := repository.NewShiftInstanceRepository(db)
	vacationRepo := repository.NewVacationPreferenceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	ledgerRepo := repository.NewFairnessLedgerRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	}, logr)
	generationSvc := service.NewGenerationService(
		staffRepo,
		shiftTypeRepo,
		instanceRepo,
		vacationRepo,
		assignmentRepo,
		ledgerRepo,
		db,
		cacheRepo,
		metricsSvc,
		validate,
		logr,
		service.GenerationConfig{
			FairnessWeight:      cfg.Generator.FairnessWeight,
			JitterAmplitude:     cfg.Generator.JitterAmplitude,
			SelectionPoolSize:   cfg.Generator.SelectionPoolSize,
			WorkdaysPerMonth:    cfg.Generator.WorkdaysPerMonth,
			VacationWeeklyQuota: cfg.Generator.VacationWeeklyQuota,
			CoverageWarnBelow:   cfg.Generator.CoverageWarnBelow,
			WorkloadCVWarnAbove: cfg.Generator.WorkloadCVWarnAbove,
			ResultCacheTTL:      cfg.Generator.ResultCacheTTL,
		},
	)
	vacationSvc := service.NewVacationService(vacationRepo, staffRepo, validate, logr)
	rosterSvc := service.NewRosterService(assignmentRepo, instanceRepo, shiftTypeRepo, ledgerRepo, validate, logr)
	exportSvc := service.NewExportService(assignmentRepo, service.ExportConfig{
		Enabled: cfg.Export.Enabled,
		Title:   cfg.Export.Title,
	}, validate, logr, nil, nil)

	generationHandler := handler.NewGenerationHandler(generationSvc)
	vacationHandler := handler.NewVacationHandler(vacationSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.GET("/metrics/summary", metricsHandler.Summary)

		api.GET("/roster", rosterHandler.Roster)
		api.GET("/roster/ledger", rosterHandler.Ledger)
		api.GET("/roster/export", exportHandler.Export)

		api.GET("/vacations", vacationHandler.List)
		api.POST("/vacations", vacationHandler.Submit)

		scheduler := api.Group("")
		scheduler.Use(middleware.RequireScheduler())
		{
			scheduler.POST("/roster/materialize", rosterHandler.Materialize)
			scheduler.POST("/schedule/generate", generationHandler.Generate)
			scheduler.GET("/schedule/result", generationHandler.Result)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
