package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"hockey-pool-go/config"
	"hockey-pool-go/database"
	"hockey-pool-go/handlers"
	"hockey-pool-go/logging"
	"hockey-pool-go/middleware"
	"hockey-pool-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := database.NewMongoUserRepository(db)
	matchRepo := database.NewMongoMatchRepository(db)
	leagueRepo := database.NewMongoLeagueRepository(db)
	predictionRepo := database.NewMongoPredictionRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)
	leagueService := services.NewLeagueService(leagueRepo)
	matchService := services.NewMatchService(matchRepo)
	predictionService := services.NewPredictionService(predictionRepo, matchRepo, leagueRepo)
	evaluationService := services.NewEvaluationService(predictionRepo, leagueRepo)
	feedService := services.NewSportsDataService(cfg.Feed)
	resultService := services.NewResultService(matchRepo, feedService, evaluationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	matchHandler := handlers.NewMatchHandler(matchService, resultService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	userHandler := handlers.NewUserHandler(authService, leagueService)
	adminHandler := handlers.NewAdminHandler(authService, resultService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	r := mux.NewRouter()
	r.Use(middleware.SecurityMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware.RequireAuth)
	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	authed.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT")
	authed.HandleFunc("/users/leagues/{leagueId}/displayName", userHandler.UpdateDisplayName).Methods("PUT")

	authed.HandleFunc("/matches", matchHandler.List).Methods("GET")
	authed.HandleFunc("/matches/{id}", matchHandler.Get).Methods("GET")
	authed.HandleFunc("/matches/stage/{stage}", matchHandler.ListByStage).Methods("GET")
	authed.HandleFunc("/matches/group/{group}", matchHandler.ListByGroup).Methods("GET")

	authed.HandleFunc("/leagues", leagueHandler.Create).Methods("POST")
	authed.HandleFunc("/leagues", leagueHandler.List).Methods("GET")
	authed.HandleFunc("/leagues/join", leagueHandler.Join).Methods("POST")
	authed.HandleFunc("/leagues/{id}", leagueHandler.Get).Methods("GET")
	authed.HandleFunc("/leagues/{id}", leagueHandler.Update).Methods("PUT")
	authed.HandleFunc("/leagues/{id}/members/{userId}", leagueHandler.RemoveMember).Methods("DELETE")

	authed.HandleFunc("/predictions", predictionHandler.Submit).Methods("POST")
	authed.HandleFunc("/predictions/league/{leagueId}", predictionHandler.ListForLeague).Methods("GET")
	authed.HandleFunc("/predictions/user/{userId}/league/{leagueId}", predictionHandler.ListForMember).Methods("GET")
	authed.HandleFunc("/predictions/match/{matchId}/league/{leagueId}", predictionHandler.ListForMatch).Methods("GET")

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(authMiddleware.RequireAdmin)
	admin.HandleFunc("/matches", matchHandler.Create).Methods("POST")
	admin.HandleFunc("/matches/{id}/result", matchHandler.SetResult).Methods("PUT")
	admin.HandleFunc("/admin/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/admin/users/{id}/admin", adminHandler.SetAdmin).Methods("PUT")
	admin.HandleFunc("/admin/sync", adminHandler.TriggerSync).Methods("POST")
	admin.HandleFunc("/admin/evaluate", adminHandler.TriggerEvaluation).Methods("POST")

	// Background result synchronization
	var scheduler *services.SyncScheduler
	if cfg.Feed.SyncEnabled {
		scheduler = services.NewSyncScheduler(resultService, cfg.Feed.SyncInterval)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logging.Warn("Feed synchronization disabled, results must be entered manually")
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Errorf("Forced shutdown: %v", err)
	}
	logging.Info("Server stopped")
}
