package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chinwag/api/internal/config"
	"github.com/chinwag/api/internal/connect"
	"github.com/chinwag/api/internal/helpers"
	"github.com/chinwag/api/internal/models"
	"github.com/chinwag/api/internal/services"
)

// Seeds the database with a demo host, a few guests, upcoming events and
// bookings. Wipes the users, events and bookings collections first.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client, err := connect.MongoDBConnect(cfg.MongoDBURI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := connect.MongoDBDisconnect(); err != nil {
			logger.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := wipeCollections(ctx, client, cfg.MongoDBName); err != nil {
		logger.Error("Failed to wipe collections", "error", err)
		os.Exit(1)
	}

	if err := connect.EnsureIndexes(ctx, client, cfg.MongoDBName); err != nil {
		logger.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	repo := models.MongodbNewRepo(client, cfg.MongoDBName)
	bookings := services.NewBookingService(repo, repo, repo, logger)

	host, guests, err := seedUsers(ctx, repo)
	if err != nil {
		logger.Error("Failed to seed users", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeded users", "host", host.Email, "guests", len(guests))

	events, err := seedEvents(ctx, repo, host.ID)
	if err != nil {
		logger.Error("Failed to seed events", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeded events", "count", len(events))

	booked, err := seedBookings(ctx, bookings, events, guests)
	if err != nil {
		logger.Error("Failed to seed bookings", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeded bookings", "count", booked)

	// Recompute through the service so the counters are verified against
	// the bookings collection.
	for _, event := range events {
		if _, err := bookings.RecomputeSeatsFilled(ctx, event.ID); err != nil {
			logger.Error("Failed to recompute seats", "eventId", event.ID.Hex(), "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Seed complete")
}

func wipeCollections(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	for _, name := range []string{models.UsersCollection, models.EventsCollection, models.BookingsCollection} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %v", name, err)
		}
	}
	return nil
}

func seedUsers(ctx context.Context, repo models.UserRepo) (*models.User, []*models.User, error) {
	hash, err := helpers.HashPassword("Chinwag1!")
	if err != nil {
		return nil, nil, err
	}

	host := &models.User{
		FirstName:   "Harriet",
		LastName:    "Mills",
		Email:       "harriet@chinwag.events",
		Password:    hash,
		AccessLevel: models.RoleHost,
		Bio:         "Runs supper clubs and board game nights across the city.",
	}
	host, err = repo.CreateUser(ctx, host)
	if err != nil {
		return nil, nil, err
	}

	guestSeeds := []struct {
		first, last, email string
	}{
		{"Ade", "Okafor", "ade@example.com"},
		{"Bella", "Nguyen", "bella@example.com"},
		{"Carlos", "Reyes", "carlos@example.com"},
		{"Dana", "Petrova", "dana@example.com"},
	}

	guests := make([]*models.User, 0, len(guestSeeds))
	for _, g := range guestSeeds {
		guest := &models.User{
			FirstName:   g.first,
			LastName:    g.last,
			Email:       g.email,
			Password:    hash,
			AccessLevel: models.RoleGuest,
		}
		guest, err = repo.CreateUser(ctx, guest)
		if err != nil {
			return nil, nil, err
		}
		guests = append(guests, guest)
	}

	return host, guests, nil
}

func seedEvents(ctx context.Context, repo models.EventRepo, hostID primitive.ObjectID) ([]*models.Event, error) {
	now := time.Now()
	seeds := []*models.Event{
		{
			Title:       "Pasta From Scratch",
			Date:        now.AddDate(0, 0, 7),
			Address:     "14 Borough Lane, London",
			Description: "Hands-on evening rolling and filling fresh pasta, dinner included.",
			SeatsTotal:  8,
		},
		{
			Title:       "Board Game Marathon",
			Date:        now.AddDate(0, 0, 14),
			Address:     "The Dice Box, 3 Canal Street",
			Description: "Strategy classics and party games from noon until late.",
			SeatsTotal:  12,
		},
		{
			Title:       "Sunrise Hike and Breakfast",
			Date:        now.AddDate(0, 1, 0),
			Address:     "Parliament Hill entrance, Hampstead Heath",
			Description: "Easy walk up to the viewpoint followed by a picnic breakfast.",
			SeatsTotal:  2,
		},
	}

	events := make([]*models.Event, 0, len(seeds))
	for _, e := range seeds {
		e.HostID = hostID
		e.Bookings = []primitive.ObjectID{}
		created, err := repo.CreateEvent(ctx, e)
		if err != nil {
			return nil, err
		}
		events = append(events, created)
	}
	return events, nil
}

func seedBookings(ctx context.Context, bookings *services.BookingService, events []*models.Event, guests []*models.User) (int, error) {
	count := 0
	for i, event := range events {
		// Stagger the guest list so each event ends up partially booked
		// and the last one fills completely.
		take := i + 2
		if take > len(guests) {
			take = len(guests)
		}
		if int64(take) > event.SeatsTotal {
			take = int(event.SeatsTotal)
		}
		for _, guest := range guests[:take] {
			details := services.BookingDetails{
				GuestName: guest.FirstName + " " + guest.LastName,
				Contact:   guest.Email,
			}
			if _, err := bookings.CreateBooking(ctx, event.ID, guest.ID, details); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
