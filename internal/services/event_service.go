package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chinwag/api/internal/helpers"
	"github.com/chinwag/api/internal/models"
)

type EventService struct {
	eventsRepo   models.EventRepo
	bookingsRepo models.BookingRepo
	cld          *cloudinary.Cloudinary
	logger       *slog.Logger
}

func NewEventService(eventsRepo models.EventRepo, bookingsRepo models.BookingRepo, cld *cloudinary.Cloudinary, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo:   eventsRepo,
		bookingsRepo: bookingsRepo,
		cld:          cld,
		logger:       logger,
	}
}

// EventUpdate carries the host-editable fields. Pointers distinguish "not
// provided" from zero values so partial updates work.
type EventUpdate struct {
	Title       *string    `json:"title"`
	Date        *time.Time `json:"date"`
	Address     *string    `json:"address"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	SeatsTotal  *int64     `json:"seatsTotal" binding:"omitempty,min=1"`
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, hostID primitive.ObjectID) (*models.Event, error) {
	event.HostID = hostID
	event.SeatsFilled = 0
	event.Bookings = []primitive.ObjectID{}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := models.Validate.Struct(event); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	return es.eventsRepo.CreateEvent(ctx, event)
}

func (es *EventService) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}

func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx)
}

func (es *EventService) ListEventsByHost(ctx context.Context, hostID primitive.ObjectID) ([]*models.Event, error) {
	return es.eventsRepo.ListEventsByHost(ctx, hostID)
}

// UpdateEvent applies a partial update on behalf of the owning host. The
// capacity may be raised or lowered, but never below the current number of
// active bookings.
func (es *EventService) UpdateEvent(ctx context.Context, id, hostID primitive.ObjectID, update EventUpdate) (*models.Event, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}
	if event.HostID != hostID {
		return nil, models.ErrForbidden
	}

	fields := map[string]interface{}{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.SeatsTotal != nil {
		if *update.SeatsTotal < 1 {
			return nil, fmt.Errorf("%w: total seats must be at least 1", models.ErrInvalidInput)
		}
		if *update.SeatsTotal < event.SeatsFilled {
			return nil, models.ErrCapacityExceeded
		}
		fields["seats_total"] = *update.SeatsTotal
	}
	if len(fields) == 0 {
		return event, nil
	}

	updated, err := es.eventsRepo.UpdateEvent(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.ErrEventNotFound
	}

	return updated, nil
}

// DeleteEvent removes the event and cascades to its bookings so no orphaned
// booking can keep referencing a dead event.
func (es *EventService) DeleteEvent(ctx context.Context, id, hostID primitive.ObjectID) error {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if event == nil {
		return models.ErrEventNotFound
	}
	if event.HostID != hostID {
		return models.ErrForbidden
	}

	deleted, err := es.bookingsRepo.DeleteBookingsByEvent(ctx, id)
	if err != nil {
		return err
	}
	if deleted > 0 {
		es.logger.Info("cascaded booking delete",
			"event_id", id.Hex(),
			"bookings_deleted", deleted,
		)
	}

	return es.eventsRepo.DeleteEvent(ctx, id)
}

// UpdateImage uploads a replacement event image and stores its URL.
func (es *EventService) UpdateImage(ctx context.Context, id, hostID primitive.ObjectID, file io.Reader) (*models.Event, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}
	if event.HostID != hostID {
		return nil, models.ErrForbidden
	}

	publicID := fmt.Sprintf("%s-%s", id.Hex(), uuid.New().String())
	url, err := helpers.UploadImage(ctx, es.cld, file, helpers.EventsFolder, publicID)
	if err != nil {
		return nil, err
	}

	updated, err := es.eventsRepo.UpdateEvent(ctx, id, map[string]interface{}{"image": url})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.ErrEventNotFound
	}

	return updated, nil
}

// UploadEventImage uploads the initial image for an event being created.
func (es *EventService) UploadEventImage(ctx context.Context, file io.Reader) (string, error) {
	return helpers.UploadImage(ctx, es.cld, file, helpers.EventsFolder, uuid.New().String())
}
