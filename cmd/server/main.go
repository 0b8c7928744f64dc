package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"moodjournal/internal/config"
	"moodjournal/internal/db"
	"moodjournal/internal/handlers"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/paystack"
	"moodjournal/internal/sentiment"
	"moodjournal/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	st := store.New(dbConn)
	analyzer := sentiment.NewAnalyzer(cfg.SentimentAPIURL, cfg.HuggingFaceAPIKey, logger)
	gateway := paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL)

	authHandler := handlers.NewAuthHandler(st, []byte(cfg.JWTSecret), logger)
	journalHandler := handlers.NewJournalHandler(st, analyzer, logger)
	moodHandler := handlers.NewMoodHandler(st, logger)
	userHandler := handlers.NewUserHandler(st, logger)
	paymentHandler := handlers.NewPaymentHandler(st, gateway, cfg, logger)

	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret))
	trialMW := mw.NewTrialMiddleware(st, logger)

	r := chi.NewRouter()
	r.Use(mw.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health)
		api.Post("/register", authHandler.Register)
		api.Post("/login", authHandler.Login)
		api.Get("/payment/config", paymentHandler.Config)

		// User-owned journal data sits behind the trial gate.
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Use(trialMW.RequireActiveTrial)
			pr.Post("/journal/entries", journalHandler.Create)
			pr.Get("/journal/entries", journalHandler.List)
			pr.Get("/mood/summary", moodHandler.Summary)
		})

		// Status and payment routes stay reachable after the trial lapses,
		// otherwise an expired user could never upgrade.
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/user/status", userHandler.Status)
			pr.Get("/subscription/status", paymentHandler.SubscriptionStatus)
			pr.Post("/payment/initialize", paymentHandler.Initialize)
			pr.Post("/payment/verify", paymentHandler.Verify)
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
