package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/dvillegas/socialnet-backend/internal/config"
	"github.com/dvillegas/socialnet-backend/internal/database"
	"github.com/dvillegas/socialnet-backend/internal/handlers"
	"github.com/dvillegas/socialnet-backend/internal/middleware"
	"github.com/dvillegas/socialnet-backend/internal/routes"
	"github.com/dvillegas/socialnet-backend/internal/services"
	"github.com/dvillegas/socialnet-backend/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}
	cfg := config.Load()

	if cfg.TokenSecret == "change-me-in-production" && cfg.IsProduction() {
		logrus.Fatal("TOKEN_SECRET must be set in production")
	}

	logrus.Info("connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer database.Disconnect()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ensure MongoDB indexes")
	}

	// Redis only backs the rate limiter, which fails open, so a missing
	// Redis downgrades rather than aborts.
	logrus.Info("connecting to Redis...")
	redisAvailable := true
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		redisAvailable = false
	} else {
		defer database.DisconnectRedis()
	}

	var uploads *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logrus.WithError(err).Warn("failed to initialize Cloudinary, uploads unavailable")
		} else {
			uploads = svc
			logrus.Info("Cloudinary service initialized")
		}
	} else {
		logrus.Warn("Cloudinary credentials not found, uploads unavailable")
	}

	codec := token.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	userService := services.NewUserService(database.DB)
	followService := services.NewFollowService(database.DB)
	postService := services.NewPostService(database.DB)

	userHandler := handlers.NewUserHandler(userService, uploads, codec, cfg.CookieMaxAge, cfg.IsProduction())
	followHandler := handlers.NewFollowHandler(followService)
	postHandler := handlers.NewPostHandler(postService)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		logrus.Info("production security enabled (security headers, per-IP + login rate limiting)")
	} else if redisAvailable {
		r.Use(middleware.RateLimit)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.Setup(r, middleware.Auth(codec), userHandler, followHandler, postHandler)

	logrus.Infof("socialnet backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
