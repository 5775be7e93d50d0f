package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chinwag/api/internal/models"
)

// BookingService owns the capacity ledger: every path that creates or removes
// a booking goes through here so the event's seats_filled counter stays
// consistent with the set of active bookings. The counter is treated as a
// cache; RecomputeSeatsFilled is the repair path when the fast-path writes
// are interrupted.
type BookingService struct {
	bookingsRepo models.BookingRepo
	eventsRepo   models.EventRepo
	usersRepo    models.UserRepo
	logger       *slog.Logger
}

func NewBookingService(bookingsRepo models.BookingRepo, eventsRepo models.EventRepo, usersRepo models.UserRepo, logger *slog.Logger) *BookingService {
	return &BookingService{
		bookingsRepo: bookingsRepo,
		eventsRepo:   eventsRepo,
		usersRepo:    usersRepo,
		logger:       logger,
	}
}

// BookingDetails carries the guest-supplied fields of a new booking.
type BookingDetails struct {
	GuestName string `json:"guestName" binding:"required"`
	Contact   string `json:"contact" binding:"required"`
	Notes     string `json:"notes" binding:"max=500"`
}

// CreateBooking reserves a seat and records the booking. The seat is taken
// with a conditional increment first so racing callers can never oversell;
// the booking document is inserted afterwards and the reservation is rolled
// back if that insert fails.
func (bs *BookingService) CreateBooking(ctx context.Context, eventID, userID primitive.ObjectID, details BookingDetails) (*models.Booking, error) {
	event, err := bs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}

	existing, err := bs.bookingsRepo.FindBookingByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateBooking
	}

	now := time.Now()
	booking := &models.Booking{
		ID:        primitive.NewObjectID(),
		GuestName: details.GuestName,
		Contact:   details.Contact,
		Notes:     details.Notes,
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.Validate.Struct(booking); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	reserved, err := bs.eventsRepo.ReserveSeat(ctx, eventID, booking.ID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		// The conditional write matches nothing when the event is full or
		// was deleted between the fetch and the reservation.
		if event, err = bs.eventsRepo.GetEventByID(ctx, eventID); err == nil && event == nil {
			return nil, models.ErrEventNotFound
		}
		return nil, models.ErrCapacityExceeded
	}

	created, err := bs.bookingsRepo.CreateBooking(ctx, booking)
	if err != nil {
		bs.rollbackReservation(ctx, eventID, booking.ID)
		if errors.Is(err, models.ErrDuplicateBooking) {
			return nil, models.ErrDuplicateBooking
		}
		return nil, err
	}

	return created, nil
}

// CancelBooking removes a booking on behalf of its owning guest.
func (bs *BookingService) CancelBooking(ctx context.Context, bookingID, requesterID primitive.ObjectID) error {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return models.ErrBookingNotFound
	}
	if booking.UserID != requesterID {
		return models.ErrForbidden
	}

	return bs.deleteAndRelease(ctx, booking)
}

// RemoveBooking removes any booking on an event on behalf of the event's
// host. Authorization is host-of-event, not owner-of-booking.
func (bs *BookingService) RemoveBooking(ctx context.Context, eventID, bookingID, hostID primitive.ObjectID) error {
	event, err := bs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return models.ErrEventNotFound
	}
	if event.HostID != hostID {
		return models.ErrForbidden
	}

	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.EventID != eventID {
		return models.ErrBookingNotFound
	}

	return bs.deleteAndRelease(ctx, booking)
}

func (bs *BookingService) deleteAndRelease(ctx context.Context, booking *models.Booking) error {
	if err := bs.bookingsRepo.DeleteBooking(ctx, booking.ID); err != nil {
		return err
	}

	if err := bs.eventsRepo.ReleaseSeat(ctx, booking.EventID, booking.ID); err != nil {
		bs.logger.Error("failed to release seat after booking delete",
			"event_id", booking.EventID.Hex(),
			"booking_id", booking.ID.Hex(),
			"error", err,
		)
	}

	// Recompute backstop: inline arithmetic alone cannot recover from a
	// partial failure between the two writes above.
	if _, err := bs.RecomputeSeatsFilled(ctx, booking.EventID); err != nil && !errors.Is(err, models.ErrEventNotFound) {
		bs.logger.Error("recompute after booking delete failed",
			"event_id", booking.EventID.Hex(),
			"error", err,
		)
	}

	return nil
}

// UpdateNotes edits the free-text note on a booking; only the hosting host
// may do this, and only on their own event.
func (bs *BookingService) UpdateNotes(ctx context.Context, eventID, bookingID, hostID primitive.ObjectID, notes string) (*models.Booking, error) {
	if err := models.Validate.Var(notes, "max=500"); err != nil {
		return nil, fmt.Errorf("%w: notes cannot exceed 500 characters", models.ErrInvalidInput)
	}

	event, err := bs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}
	if event.HostID != hostID {
		return nil, models.ErrForbidden
	}

	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.EventID != eventID {
		return nil, models.ErrBookingNotFound
	}

	updated, err := bs.bookingsRepo.UpdateBookingNotes(ctx, bookingID, notes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.ErrBookingNotFound
	}

	return updated, nil
}

// ListBookingsForEvent returns an event's bookings in creation order, each
// joined with the booking user's profile summary.
func (bs *BookingService) ListBookingsForEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.BookingWithGuest, error) {
	event, err := bs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}

	bookings, err := bs.bookingsRepo.ListBookingsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	guests := make(map[primitive.ObjectID]*models.GuestSummary)
	result := make([]*models.BookingWithGuest, 0, len(bookings))
	for _, booking := range bookings {
		guest, ok := guests[booking.UserID]
		if !ok {
			user, err := bs.usersRepo.GetUserByID(ctx, booking.UserID)
			if err != nil {
				return nil, err
			}
			if user != nil {
				guest = user.Summary()
			}
			guests[booking.UserID] = guest
		}
		result = append(result, &models.BookingWithGuest{Booking: *booking, Guest: guest})
	}

	return result, nil
}

// RecomputeSeatsFilled recounts the event's active bookings and overwrites
// the cached counter with the true count. It is idempotent and safe to call
// at any time; detected drift is logged, not fatal.
func (bs *BookingService) RecomputeSeatsFilled(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	event, err := bs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if event == nil {
		return 0, models.ErrEventNotFound
	}

	count, err := bs.bookingsRepo.CountBookingsByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if count != event.SeatsFilled {
		bs.logger.Warn("seat counter drift detected",
			"event_id", eventID.Hex(),
			"seats_filled", event.SeatsFilled,
			"active_bookings", count,
		)
	}

	if err := bs.eventsRepo.SetSeatsFilled(ctx, eventID, count); err != nil {
		return 0, err
	}

	return count, nil
}

func (bs *BookingService) rollbackReservation(ctx context.Context, eventID, bookingID primitive.ObjectID) {
	if err := bs.eventsRepo.ReleaseSeat(ctx, eventID, bookingID); err != nil {
		bs.logger.Error("failed to roll back seat reservation",
			"event_id", eventID.Hex(),
			"booking_id", bookingID.Hex(),
			"error", err,
		)
		if _, err := bs.RecomputeSeatsFilled(ctx, eventID); err != nil && !errors.Is(err, models.ErrEventNotFound) {
			bs.logger.Error("recompute after failed rollback failed",
				"event_id", eventID.Hex(),
				"error", err,
			)
		}
	}
}
