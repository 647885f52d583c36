package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/youssefhany/go-eventbook/config"
	"github.com/youssefhany/go-eventbook/controllers"
	"github.com/youssefhany/go-eventbook/middleware"
	"github.com/youssefhany/go-eventbook/services"
	"github.com/youssefhany/go-eventbook/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	// Connect to MongoDB
	config.ConnectDB()

	// Wire stores, services and controllers
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	images, err := store.NewDiskImageStore(uploadDir, baseURL)
	if err != nil {
		logrus.Fatalf("image store init error: %v", err)
	}

	users := store.NewMongoUserStore(config.DB)
	events := store.NewMongoEventStore(config.DB)
	bookings := store.NewMongoBookingStore(config.DB)

	authSvc := services.NewAuthService(users, images, services.SMTPMailer{})
	eventSvc := services.NewEventService(events, bookings)
	bookingSvc := services.NewBookingService(events, bookings)

	authCtl := controllers.NewAuthController(authSvc)
	eventCtl := controllers.NewEventController(eventSvc)
	bookingCtl := controllers.NewBookingController(bookingSvc, authSvc)

	// Initialize Gin router
	router := gin.Default()
	router.Static("/uploads", uploadDir)

	// Root route for base URL
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Eventbook API!",
			"routes":  []string{"/api/auth", "/api/events", "/api/bookings"},
		})
	})

	// API routes group
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authCtl.Signup)
			auth.POST("/login", authCtl.Login)
			auth.GET("/verify-email", authCtl.VerifyEmail)
			auth.POST("/create-admin", middleware.Auth(), middleware.RequireAdmin(), authCtl.CreateAdmin)
			auth.PATCH("/change-password", middleware.Auth(), authCtl.ChangePassword)
			auth.GET("/profile", middleware.Auth(), authCtl.Profile)
			auth.PATCH("/profile-picture", middleware.Auth(), authCtl.UploadProfilePicture)
		}

		eventsGroup := api.Group("/events")
		{
			eventsGroup.GET("", middleware.OptionalAuth(), eventCtl.List)
			eventsGroup.GET("/:id", middleware.Auth(), eventCtl.Get)
			eventsGroup.POST("", middleware.Auth(), middleware.RequireAdmin(), eventCtl.Create)
			eventsGroup.PATCH("/:id", middleware.Auth(), middleware.RequireAdmin(), eventCtl.Update)
			eventsGroup.DELETE("/:id", middleware.Auth(), middleware.RequireAdmin(), eventCtl.Delete)
		}

		bookingsGroup := api.Group("/bookings", middleware.Auth())
		{
			bookingsGroup.POST("/:eventId", bookingCtl.Create)
			bookingsGroup.GET("", bookingCtl.List)
			bookingsGroup.GET("/:id", bookingCtl.Get)
			bookingsGroup.GET("/:id/ticket", bookingCtl.Ticket)
			bookingsGroup.DELETE("/:id", bookingCtl.Delete)
		}
	}

	// Get port from environment (default to 8080)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		logrus.Infof("server started on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt (Ctrl+C)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("server forced to shutdown: %v", err)
	}

	if err := config.Client.Disconnect(ctx); err != nil {
		logrus.Errorf("error disconnecting MongoDB: %v", err)
	}

	logrus.Info("server exited properly")
}
