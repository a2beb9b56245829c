package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"distance-backend/internal/config"
	"distance-backend/internal/geo"
	"distance-backend/internal/handlers"
	"distance-backend/internal/middleware"
	"distance-backend/internal/repository"
	"distance-backend/internal/services"
	"distance-backend/internal/weather"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	imageRepo := repository.NewImageRepository(db)

	// Initialize provider clients
	geocoder := geo.NewGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.Timeout())
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout())

	// Initialize services
	userService := services.NewUserService(userRepo, geocoder, cfg.JWT.Secret)
	friendService := services.NewFriendshipService(userRepo, friendRepo, msgRepo)
	messageService := services.NewMessageService(userRepo, friendRepo, msgRepo)
	imageService := services.NewImageService(friendRepo, imageRepo)
	viewService := services.NewFriendViewService(userRepo, friendRepo, imageRepo, msgRepo, weatherClient)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, friendService, messageService)
	friendHandler := handlers.NewFriendHandler(friendService, messageService, viewService)
	messageHandler := handlers.NewMessageHandler(messageService, friendService)
	imageHandler := handlers.NewImageHandler(imageService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Public routes
	r.Post("/signup/", userHandler.SignUp)
	r.Post("/login/", userHandler.Login)

	// Fixed asset redirects
	for route, target := range handlers.AssetRoutes() {
		r.Get(route, handlers.AssetRedirect(target))
	}

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(userService))

		r.Get("/home/", userHandler.Home)
		r.Get("/search_friends/", friendHandler.Search)
		r.Post("/add_friend/", friendHandler.AddFriend)
		r.Get("/messages/", messageHandler.Inbox)
		r.Post("/accept/", friendHandler.Accept)
		r.Post("/send_msg/", messageHandler.Send)
		r.Post("/del_friend/", friendHandler.Delete)
		r.Get("/settings_view/", userHandler.SettingsView)
		r.Post("/settings_set/", userHandler.SettingsSet)

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", friendHandler.List)
			r.Get("/{friend_id}/", friendHandler.View)
			r.Get("/{friend_id}/add_images/", imageHandler.List)
			r.Post("/{friend_id}/image_confirm/", imageHandler.Confirm)
			r.Post("/{friend_id}/del_img/", imageHandler.Delete)
			r.Post("/{friend_id}/send_msg/", messageHandler.SendToFriend)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
