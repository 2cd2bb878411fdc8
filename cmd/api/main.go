package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixlyhq/fixly-api/internal/config"
	"github.com/fixlyhq/fixly-api/internal/handlers"
	"github.com/fixlyhq/fixly-api/internal/mail"
	"github.com/fixlyhq/fixly-api/internal/middleware"
	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	// --- Mailer ---
	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = &mail.SMTPMailer{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.MailFrom,
		}
	} else {
		log.Println("SMTP not configured, mail will be logged only.")
		mailer = mail.LogMailer{}
	}

	h, err := handlers.NewHandler(db, cfg, mailer)
	if err != nil {
		log.Fatalf("Failed to initialize handlers: %v", err)
	}

	// --- Gin Router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(slog.New(slog.NewJSONHandler(os.Stdout, nil))))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Password recovery and settings changes are sensitive; keep them
	// behind a tight per-IP window.
	sensitiveLimiter := middleware.NewRateLimiter(5, 15*time.Minute)

	// --- Routes ---
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/client/signup", h.ClientSignup)
		authRoutes.POST("/provider/signup", h.ProviderSignup)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/admin/signup", h.AdminSignup)
		authRoutes.POST("/admin/login", h.AdminLogin)
		authRoutes.POST("/forgot-password", sensitiveLimiter.Middleware(), h.ForgotPassword)
		authRoutes.POST("/reset-password", sensitiveLimiter.Middleware(), h.ResetPassword)
	}

	providerRoutes := r.Group("/api/providers")
	providerRoutes.Use(middleware.Auth(h.Tokens), middleware.RequireRole(models.RoleProvider))
	{
		providerRoutes.GET("/profile", h.GetProfile)
		providerRoutes.PUT("/profile", h.UpdateProfile)
		providerRoutes.GET("/settings", h.GetSettings)
		providerRoutes.PUT("/settings", sensitiveLimiter.Middleware(), h.UpdateSettings)
	}

	serviceRoutes := r.Group("/api/services")
	serviceRoutes.Use(middleware.Auth(h.Tokens), middleware.RequireRole(models.RoleProvider))
	{
		serviceRoutes.GET("", h.ListServices)
		serviceRoutes.POST("", h.CreateService)
		serviceRoutes.GET("/:id", h.GetService)
		serviceRoutes.PUT("/:id", h.UpdateService)
		serviceRoutes.DELETE("/:id", h.DeleteService)
	}

	bookingRoutes := r.Group("/api/bookings")
	bookingRoutes.Use(middleware.Auth(h.Tokens))
	{
		bookingRoutes.GET("", h.ListBookings)
		bookingRoutes.POST("", h.CreateBooking)
		bookingRoutes.PATCH("/:id/status", middleware.RequireRole(models.RoleProvider, models.RoleAdmin), h.UpdateBookingStatus)
		bookingRoutes.PATCH("/:id/cancel", h.CancelBooking)
	}

	adminRoutes := r.Group("/api/admin")
	adminRoutes.Use(middleware.Auth(h.Tokens), middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.GET("/clients", h.ListClients)
		adminRoutes.GET("/providers", h.ListProviders)
		adminRoutes.PATCH("/providers/:id/status", h.UpdateProviderStatus)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server forced to shutdown:", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Println("Error disconnecting MongoDB:", err)
	}
	log.Println("Server exited properly")
}
