package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"reminder-backend/config"
	"reminder-backend/controllers"
	"reminder-backend/routes"
	"reminder-backend/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg := config.MustLoad()

	log, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("No .env file found")
	}

	mode, err := services.ParseDispatchMode(cfg.Dispatch.Mode)
	if err != nil {
		log.Fatal("Invalid dispatch configuration", zap.Error(err))
	}

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect database", zap.Error(err))
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	store := services.NewReminderStore(db)

	var sender services.Sender
	to := cfg.Dispatch.To
	if cfg.Twilio.Enabled() {
		sender = services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	} else {
		log.Warn("Twilio credentials not set, reminders will only be logged")
		sender = services.NewLogSender(log.Named("notifications"))
		if to == "" {
			to = "console"
		}
	}

	reminderService := services.NewReminderService(log.Named("dispatcher"), store, sender, services.DispatchConfig{
		Schedule:   cfg.Dispatch.Schedule,
		Mode:       mode,
		Workers:    cfg.Dispatch.Workers,
		RunOnStart: cfg.Dispatch.OnStart,
		To:         to,
	})
	if err := reminderService.StartScheduler(); err != nil {
		log.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}

	gin.SetMode(cfg.HTTP.Mode)
	reminderController := controllers.NewReminderController(log.Named("http"), store, nil)
	r := routes.SetupRouter(log.Named("http"), cfg.HTTP, reminderController)
	printRoutes(log, r)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: r,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("Server running", zap.String("addr", "http://localhost:"+cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		log.Error("Server error, shutting down...", zap.Error(err))
	case <-ctx.Done():
		log.Info("Received stop signal, shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown server", zap.Error(err))
	}
	if err := reminderService.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop reminder scheduler", zap.Error(err))
	}

	log.Info("Application has shutdown")
}

func printRoutes(log *zap.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
