package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogadmin/internal/config"
	"blogadmin/internal/db"
	"blogadmin/internal/handlers"
	"blogadmin/internal/logging"
	"blogadmin/internal/middleware"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"
	"blogadmin/internal/router"
	"blogadmin/internal/services"
	"blogadmin/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	if !dotenv {
		log.Info("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return err
	}

	// Stores
	userStore := repository.NewStore[models.User](conn, "user")
	commentStore := repository.NewStore[models.Comment](conn, "comment")
	articleStore := repository.NewStore[models.Article](conn, "article")
	categoryStore := repository.NewStore[models.Category](conn, "category")
	tagStore := repository.NewStore[models.Tag](conn, "tag")

	// 异步邮件通知
	mail := services.NewMailService(cfg.Mail, log)
	queue := services.NewNotifyQueue(mail, cfg.Mail.QueueSize, log)

	locator, closeLocator, err := openLocator(cfg.GeoIP, log)
	if err != nil {
		return err
	}
	defer closeLocator()

	// Services
	userService := services.NewUserService(userStore, log)
	authService := services.NewAuthService(userService, cfg.JWT)
	articleService := services.NewArticleService(articleStore)
	commentService := services.NewCommentService(commentStore, articleService, queue, locator,
		services.CommentConfig{Owner: cfg.Mail.Owner, SiteURL: cfg.SiteURL}, log)

	if err := userService.Bootstrap(ctx, cfg.Admin.Name, cfg.Admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	router.RegisterRoutes(r, authService, router.Routes(router.Handlers{
		Auth:     handlers.NewAuthHandler(authService, log),
		User:     handlers.NewUserHandler(userService, log),
		Comment:  handlers.NewCommentHandler(commentService, log),
		Category: handlers.NewCategoryHandler(services.NewCategoryService(categoryStore), log),
		Tag:      handlers.NewTagHandler(services.NewTagService(tagStore), log),
		Article:  handlers.NewArticleHandler(articleService, log),
		Health:   handlers.NewHealthHandler(conn),
	}))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Blog admin server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
	if err := queue.Close(shutdownCtx); err != nil {
		log.Warn("notification queue not drained", zap.Error(err))
	}
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}

// openLocator opens the GeoIP database when one is configured. Without it
// every address resolves to nothing.
func openLocator(cfg config.GeoIPConfig, log *zap.Logger) (utils.Locator, func(), error) {
	var (
		next    utils.Locator = utils.NoopLocator{}
		closeFn               = func() {}
	)
	if cfg.Database != "" {
		geo, err := utils.OpenGeoIP(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		next = geo
		closeFn = func() {
			if err := geo.Close(); err != nil {
				log.Warn("close geoip database", zap.Error(err))
			}
		}
		log.Info("GeoIP database loaded", zap.String("path", cfg.Database))
	} else {
		log.Warn("GEOIP_DB not set, comment addresses will be unknown")
	}

	bounded, err := utils.NewBoundedLocator(next, cfg.Timeout)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return bounded, closeFn, nil
}
