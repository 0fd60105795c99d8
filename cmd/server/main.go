package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realm-presence/internal/app"
	"realm-presence/internal/auth"
	"realm-presence/internal/config"
	apphttp "realm-presence/internal/http"
	"realm-presence/internal/lifecycle"
	"realm-presence/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log.Level)

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatalf("setup auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	tracker := service.NewPresenceTracker(store.Credentials, store.Presence, service.TrackerConfig{
		OffsetHours: cfg.Presence.OffsetHours,
		Logger:      logger,
	})

	dispatcher := lifecycle.NewDispatcher(lifecycle.Config{
		MaxInFlight: cfg.Presence.MaxInFlight,
		Logger:      logger,
	}, tracker)
	if err := dispatcher.Start(ctx); err != nil {
		logger.Fatalf("start dispatcher: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(tracker, dispatcher, verifier, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	// unload beacons accepted during shutdown still get written
	dispatcher.Shutdown()

	logger.Info("bye")
}
