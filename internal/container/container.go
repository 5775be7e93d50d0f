package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chinwag/api/internal/config"
	"github.com/chinwag/api/internal/models"
	"github.com/chinwag/api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Config     *config.Config
	Cloudinary *cloudinary.Cloudinary

	MongoDBClient *mongo.Client

	UserService    *services.UserService
	EventService   *services.EventService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	userService := services.NewUserService(repo, cld, cfg.TokenSecret, cfg.TokenTTL)
	eventService := services.NewEventService(repo, repo, cld, logger)
	bookingService := services.NewBookingService(repo, repo, repo, logger)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Cloudinary:     cld,
		MongoDBClient:  mongoDBClient,
		UserService:    userService,
		EventService:   eventService,
		BookingService: bookingService,
	}
}
