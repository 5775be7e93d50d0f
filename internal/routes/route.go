package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chinwag/api/internal/container"
	"github.com/chinwag/api/internal/handlers"
	"github.com/chinwag/api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	auth := middleware.Auth(container.Config.TokenSecret, container.Logger)
	hostOnly := middleware.RequireHost()

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "chinwag-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(container.UserService))
		v1.POST("/signin", handlers.Signin(container.UserService))

		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/:id", handlers.GetEvent(container.EventService))
		v1.GET("/hosts/:hostId/events", handlers.ListEventsByHost(container.EventService))
	}

	protected := v1.Group("/")
	protected.Use(auth)

	protected.GET("/auth/validate", handlers.ValidateSession(container.UserService))
	protected.GET("/profile", handlers.Me(container.UserService))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.PUT("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
		userRoutes.PUT("/:id/avatar", handlers.UploadAvatar(container.UserService))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("/", hostOnly, handlers.CreateEvent(container.EventService))
		eventRoutes.PUT("/:id", hostOnly, handlers.UpdateEvent(container.EventService))
		eventRoutes.PUT("/:id/image", hostOnly, handlers.UpdateEventImage(container.EventService))
		eventRoutes.DELETE("/:id", hostOnly, handlers.DeleteEvent(container.EventService))

		eventRoutes.POST("/:id/book", handlers.BookEvent(container.BookingService))
		eventRoutes.GET("/:id/bookings", handlers.ListEventBookings(container.BookingService))
		eventRoutes.PUT("/:id/bookings/:bookingId/note", hostOnly, handlers.UpdateBookingNote(container.BookingService))
		eventRoutes.DELETE("/:id/bookings/:bookingId", hostOnly, handlers.RemoveBooking(container.BookingService))
	}

	protected.DELETE("/bookings/:bookingId", handlers.CancelBooking(container.BookingService))

	return r
}
