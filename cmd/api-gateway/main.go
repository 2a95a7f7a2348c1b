package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edunex/portal-academico-api/api/swagger"
	"github.com/edunex/portal-academico-api/internal/handler"
	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/repository"
	"github.com/edunex/portal-academico-api/internal/service"
	"github.com/edunex/portal-academico-api/pkg/cache"
	"github.com/edunex/portal-academico-api/pkg/config"
	"github.com/edunex/portal-academico-api/pkg/database"
	"github.com/edunex/portal-academico-api/pkg/jobs"
	"github.com/edunex/portal-academico-api/pkg/logger"
	corsmiddleware "github.com/edunex/portal-academico-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edunex/portal-academico-api/pkg/middleware/requestid"
	"github.com/edunex/portal-academico-api/pkg/schedule"
	"github.com/edunex/portal-academico-api/pkg/storage"
)

// @title Portal Acadêmico API
// @version 1.0.0
// @description Administrative workflow core for the academic portal
// @BasePath /api/v1
// @schemes http
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()
	store := cache.NewStore(redisClient)

	bucketStore, err := storage.NewBucketStore(
		cfg.Storage.BaseDir,
		cfg.Storage.PublicBaseURL,
		storage.Limits{AllowedMIMEs: cfg.Storage.AllowedDocumentMIMEs, MaxSizeBytes: cfg.Storage.MaxDocumentSizeBytes},
		storage.Limits{AllowedMIMEs: cfg.Storage.AllowedMediaMIMEs, MaxSizeBytes: cfg.Storage.MaxMediaSizeBytes},
	)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage", "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	// Repositories.
	profileRepo := repository.NewProfileRepository(db)
	classRepo := repository.NewClassRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	retentionRepo := repository.NewRetentionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services.
	emailRule := service.EmailRule{
		AdminEmails:      cfg.Roles.AdminEmails,
		ProfessorEmails:  cfg.Roles.ProfessorEmails,
		ProfessorDomains: cfg.Roles.ProfessorDomains,
	}
	resolver := service.NewRoleResolver(emailRule, profileRepo, store, cfg.Roles.CheckCooldown, logr)

	notificationSvc := service.NewNotificationService(notificationRepo, store, cfg.Notifications.UnreadCacheTTL, logr)

	dispatcher := jobs.NewDispatcher("notifications", service.RequestEventHandler(notificationSvc), jobs.DispatcherConfig{
		Capacity:   cfg.Notifications.EmitterCapacity,
		MaxRetries: cfg.Notifications.EmitterRetries,
		Logger:     logr,
	})
	emitter := service.NewDispatcherEmitter(dispatcher, metrics)

	authSvc := service.NewAuthService(profileRepo, resolver, cfg.JWT.Secret, cfg.JWT.Expiration, validate, logr)
	profileSvc := service.NewProfileService(profileRepo, resolver, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, classRepo, resolver, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, resolver, logr)
	requestSvc := service.NewRequestService(requestRepo, resolver, emitter, validate, logr)
	retentionSvc := service.NewRetentionService(retentionRepo, resolver, validate, logr)
	reportSvc := service.NewReportService(reportRepo, resolver, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc, profileSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, cfg.Notifications.PollInterval)
	retentionHandler := handler.NewRetentionHandler(retentionSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	documentHandler := handler.NewDocumentHandler(bucketStore, cfg.Storage.DocumentBucket, cfg.Storage.MediaBucket, logr)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/classes", attendanceHandler.GetClasses)
		authed.GET("/classes/:class_id/attendance", attendanceHandler.GetAttendance)
		authed.GET("/classes/:class_id/enrollments", enrollmentHandler.ListForClass)
		authed.POST("/attendance", attendanceHandler.SaveAttendance)

		authed.POST("/requests", requestHandler.Create)
		authed.GET("/requests", requestHandler.ListMine)
		authed.GET("/requests/:id", requestHandler.GetByID)
		authed.POST("/requests/:id/comments", requestHandler.AddComment)

		authed.GET("/notifications", notificationHandler.List)
		authed.PATCH("/notifications/:id/read", notificationHandler.MarkAsRead)

		authed.POST("/documents", documentHandler.UploadDocument)
		authed.DELETE("/documents", documentHandler.DeleteDocument)
		authed.POST("/media", documentHandler.UploadMedia)

		reports := authed.Group("/reports")
		reports.Use(middleware.RequireRoles(resolver, models.RoleAdmin, models.RoleProfessor))
		{
			reports.GET("/attendance", reportHandler.Attendance)
			reports.GET("/attendance/export", reportHandler.ExportAttendance)
			reports.GET("/requests", middleware.RequireRoles(resolver, models.RoleAdmin), reportHandler.RequestTotals)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRoles(resolver, models.RoleAdmin))
		{
			admin.GET("/profiles", profileHandler.List)
			admin.GET("/requests", requestHandler.ListAll)
			admin.PATCH("/requests/:id/status", middleware.Audit(logr, "update_status", "request"), requestHandler.UpdateStatus)
			admin.PATCH("/enrollments/:id/status", middleware.Audit(logr, "update_status", "enrollment"), enrollmentHandler.UpdateStatus)
			admin.POST("/retention-actions", middleware.Audit(logr, "create", "retention_action"), retentionHandler.Create)
			admin.GET("/retention-actions/:user_id", retentionHandler.ListForUser)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	poller := schedule.NewPoller("unread-counts", cfg.Notifications.PollInterval, notificationSvc.RefreshAllUnreadCounts, logr)
	poller.Start(ctx)
	defer poller.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
