package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/harentsoaR/medconnect-api/internal/config"
	"github.com/harentsoaR/medconnect-api/internal/handlers"
	"github.com/harentsoaR/medconnect-api/internal/logger"
	"github.com/harentsoaR/medconnect-api/internal/middleware"
	"github.com/harentsoaR/medconnect-api/internal/repository"
	"github.com/harentsoaR/medconnect-api/internal/services"
	"github.com/harentsoaR/medconnect-api/internal/utils"
	"github.com/harentsoaR/medconnect-api/internal/validation"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	client, err := repository.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("MongoDB disconnect failed", slog.Any("error", err))
		}
	}()
	db := client.Database(cfg.MongoDatabase)
	log.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))

	// --- Services ---
	issuer, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	patients := repository.NewPatients(db, cfg.StoreTimeout)
	doctors := repository.NewDoctors(db, cfg.StoreTimeout)
	validator := validation.New()

	var notifier services.MessageNotifier
	notificationSvc := services.NewNotificationService(cfg.NotifyWebhookURL, log)
	if notificationSvc != nil {
		notifier = notificationSvc
	}

	h := handlers.NewHandler(
		services.NewAuthService(patients, doctors, utils.NewBcryptHasher(cfg.BcryptCost), issuer, validator, log),
		services.NewMessagingService(patients, doctors, notifier, validator, log),
		services.NewDirectoryService(doctors, validator, log),
		repository.NewPinger(client, cfg.StoreTimeout),
		log,
	)

	// --- Gin Router ---
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
		}),
		middleware.RequestID(log),
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
	)
	h.Routes(r, issuer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	notificationSvc.Wait()
	return nil
}
