package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pratyushashukla/IP-BE/controllers"
	"github.com/pratyushashukla/IP-BE/db"
	"github.com/pratyushashukla/IP-BE/forms"
	"github.com/pratyushashukla/IP-BE/kv"
	"github.com/pratyushashukla/IP-BE/metrics"
	"github.com/pratyushashukla/IP-BE/middleware"
	"github.com/pratyushashukla/IP-BE/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// facility collections served through the pass-through resource routes;
// each listing GET is cached under cache:<name> and every mutation on
// the collection invalidates exactly that key
var resourceCollections = []string{
	"inmates",
	"visitors",
	"mealplans",
	"allergies",
	"tasks",
	"appointments",
	"reports",
}

// CORS (Cross-Origin Resource Sharing)
func CORSMiddleware() gin.HandlerFunc {
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Origin, Authorization, Accept, Accept-Encoding, authtoken")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, authtoken")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
		} else {
			c.Next()
		}
	}
}

func SlogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rlog := logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"request_id", requestid.Get(c),
		)

		start := time.Now()
		rlog.Debug("request started")
		c.Next()
		duration := time.Since(start)
		rlog.Info("request completed", "status", c.Writer.Status(), "duration", duration)
	}
}

func main() {
	//Load the .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Error("failed to load the env file")
			os.Exit(1)
		}
	}

	var logger *slog.Logger
	if os.Getenv("ENV") == "PRODUCTION" {
		gin.SetMode(gin.ReleaseMode)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	//Start the default gin server
	r := gin.Default()

	//Custom form validator
	binding.Validator = new(forms.DefaultValidator)

	r.Use(CORSMiddleware())
	r.Use(requestid.New(requestid.WithCustomHeaderStrKey("X-Request-Id")))
	r.Use(SlogMiddleware(logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	redisDb, err := strconv.ParseInt(os.Getenv("REDIS_DB"), 0, 0)
	if err != nil {
		slog.Error("failed to parse REDIS_DB env variable", "error", err)
		os.Exit(1)
	}
	redisKV, err := kv.NewRedisKV(os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PASS"), int(redisDb))
	if err != nil {
		slog.Error("failed to connect to key-value store", "error", err)
		os.Exit(1)
	}

	mongoDB, err := db.NewMongo(os.Getenv("DB_URI"), os.Getenv("DB_NAME"))
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	tokenService, err := service.NewTokenService([]byte(os.Getenv("JWT_PRIVATEKEY")))
	if err != nil {
		slog.Error("failed to init token service", "error", err)
		os.Exit(1)
	}

	mailer := &service.SMTPMailer{
		Host: os.Getenv("SMTP_HOST"),
		Port: os.Getenv("SMTP_PORT"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
	}

	sessionService := service.NewSessionService(mongoDB, tokenService)
	authService := service.NewAuthService(mongoDB, tokenService, mailer)

	guard := middleware.NewAuthGuard(sessionService)
	cache := middleware.NewCache(redisKV)

	health := controllers.NewHealthController(redisKV)
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(guard.Handler())

	auth := controllers.NewAuthController(authService)
	api.POST("/auth/signup", auth.Signup)
	api.PATCH("/auth/login", auth.Login)
	api.PATCH("/auth/logout", auth.Logout)
	api.PATCH("/auth/forgot-password", auth.ForgotPassword)
	api.PATCH("/auth/reset-password", auth.ResetPassword)
	api.PATCH("/auth/verify-code", auth.VerifyCode)
	api.PATCH("/auth/resend-code", auth.ResendCode)

	users := controllers.NewSoftDeleteResourceController(mongoDB, "users")
	registerResource(api, cache, users, "users")

	for _, name := range resourceCollections {
		registerResource(api, cache, controllers.NewResourceController(mongoDB, name), name)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	slog.Info("server starting", "port", port, "env", os.Getenv("ENV"))

	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// registerResource wires a collection's routes with the cache-aside
// layer: read-through on the listing GET, explicit invalidation of that
// collection's key on every mutation.
func registerResource(api *gin.RouterGroup, cache *middleware.Cache, ctrl *controllers.ResourceController, name string) {
	cacheKey := "cache:" + name

	g := api.Group("/" + name)
	g.GET("", cache.Page(cacheKey), ctrl.List)
	g.GET("/:id", ctrl.Get)
	g.POST("", cache.Invalidate(cacheKey), ctrl.Create)
	g.PATCH("/:id", cache.Invalidate(cacheKey), ctrl.Update)
	g.DELETE("/:id", cache.Invalidate(cacheKey), ctrl.Delete)
}
