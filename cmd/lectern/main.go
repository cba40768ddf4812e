package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lectern-lms/lectern/internal/app"
	"github.com/lectern-lms/lectern/internal/auth"
	"github.com/lectern-lms/lectern/internal/courses"
	"github.com/lectern-lms/lectern/internal/files"
	"github.com/lectern-lms/lectern/internal/notifications"
	"github.com/lectern-lms/lectern/internal/platform/cache"
	"github.com/lectern-lms/lectern/internal/platform/db"
	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/reports"
	"github.com/lectern-lms/lectern/internal/roles"
	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
	"github.com/lectern-lms/lectern/internal/users"
	"github.com/lectern-lms/lectern/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	if cfg.JWTSecret == "lectern-dev-secret-change-me" {
		logger.Warn("running with the development signing key; set JWT_SECRET")
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens, err := token.NewManager(token.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		logger.Error("init token manager", slog.Any("error", err))
		os.Exit(1)
	}

	engine, err := rbac.NewEngine(cfg.SuperadminPermission)
	if err != nil {
		logger.Error("init permission engine", slog.Any("error", err))
		os.Exit(1)
	}
	rbacMiddleware := rbac.Middleware{Engine: engine, Logger: logger}
	authMiddleware := auth.Middleware{Tokens: tokens}

	auditLogger := shared.NewAuditLogger(pool)

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo, cfg.SuperadminPermission)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware, auditLogger)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, rolesService, tokens)
	authHandler := auth.NewHandler(logger, authService, authMiddleware, auditLogger)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	coursesRepo := courses.NewRepository(pool)
	coursesService := courses.NewService(coursesRepo)
	coursesHandler := courses.NewHandler(logger, coursesService, authMiddleware, rbacMiddleware)

	blobStore, err := files.NewFSStore(cfg.UploadDir)
	if err != nil {
		logger.Error("init upload store", slog.Any("error", err))
		os.Exit(1)
	}
	filesRepo := files.NewRepository(pool)
	filesService := files.NewService(filesRepo, blobStore)
	filesHandler := files.NewHandler(logger, filesService, rbacMiddleware)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	notificationsRepo := notifications.NewRepository(pool)
	notificationsService := notifications.NewService(notificationsRepo, redisClient, jobsClient, logger)
	notificationsHandler := notifications.NewHandler(logger, notificationsService, rbacMiddleware)

	reportsService := reports.NewService(pool, redisClient, logger)
	reportsHandler := reports.NewHandler(logger, reportsService, rbacMiddleware)

	permissionsHandler := rbac.NewPermissionsHandler(rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthMiddleware:       authMiddleware,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		RolesHandler:         rolesHandler,
		PermissionsHandler:   permissionsHandler,
		CoursesHandler:       coursesHandler,
		FilesHandler:         filesHandler,
		NotificationsHandler: notificationsHandler,
		ReportsHandler:       reportsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
