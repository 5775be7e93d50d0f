package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chinwag/api/internal/models"
)

func newBookingService(store *fakeStore) *BookingService {
	return NewBookingService(store, store, store, testLogger())
}

func validDetails() BookingDetails {
	return BookingDetails{
		GuestName: "Ade Okafor",
		Contact:   "ade@example.com",
	}
}

func TestCreateBooking(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 2)

	booking, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, event.ID, booking.EventID)
	assert.Equal(t, guest.ID, booking.UserID)

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.SeatsFilled)
	assert.Contains(t, stored.Bookings, booking.ID)
}

func TestCreateBookingEventNotFound(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	guest := seedUser(store, models.RoleGuest, "guest@example.com")

	_, err := service.CreateBooking(context.Background(), primitive.NewObjectID(), guest.ID, validDetails())
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestCreateBookingMissingFields(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 2)

	_, err := service.CreateBooking(context.Background(), event.ID, guest.ID, BookingDetails{Contact: "ade@example.com"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	// Validation failures must not consume a seat.
	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.SeatsFilled)
}

func TestCreateBookingDuplicateRejected(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 5)

	_, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)

	_, err = service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	assert.ErrorIs(t, err, models.ErrDuplicateBooking)

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.SeatsFilled)

	count, err := store.CountBookingsByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	first := seedUser(store, models.RoleGuest, "first@example.com")
	second := seedUser(store, models.RoleGuest, "second@example.com")
	event := seedEvent(store, host.ID, 1)

	_, err := service.CreateBooking(context.Background(), event.ID, first.ID, validDetails())
	require.NoError(t, err)

	_, err = service.CreateBooking(context.Background(), event.ID, second.ID, validDetails())
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.SeatsFilled)
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	const seats = 3
	const racers = 20

	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	event := seedEvent(store, host.ID, seats)

	guests := make([]*models.User, racers)
	for i := range guests {
		guests[i] = seedUser(store, models.RoleGuest, fmt.Sprintf("guest%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.CreateBooking(context.Background(), event.ID, guests[i].ID, validDetails())
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, models.ErrCapacityExceeded):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, seats, won)
	assert.Equal(t, racers-seats, lost)

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(seats), stored.SeatsFilled)

	count, err := store.CountBookingsByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(seats), count)
}

func TestCreateBookingRollsBackOnInsertFailure(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 2)

	store.failCreateBooking = errors.New("write conflict")
	_, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.Error(t, err)

	// The reserved seat must have been released again.
	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.SeatsFilled)
	assert.Empty(t, stored.Bookings)

	// And the seat is bookable again once inserts work.
	store.failCreateBooking = nil
	_, err = service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	assert.NoError(t, err)
}

func TestCancelBookingFreesSeat(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	first := seedUser(store, models.RoleGuest, "first@example.com")
	second := seedUser(store, models.RoleGuest, "second@example.com")
	event := seedEvent(store, host.ID, 1)

	booking, err := service.CreateBooking(context.Background(), event.ID, first.ID, validDetails())
	require.NoError(t, err)

	// Event is full now.
	_, err = service.CreateBooking(context.Background(), event.ID, second.ID, validDetails())
	require.ErrorIs(t, err, models.ErrCapacityExceeded)

	require.NoError(t, service.CancelBooking(context.Background(), booking.ID, first.ID))

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.SeatsFilled)
	assert.Empty(t, stored.Bookings)

	// The freed seat can be booked by someone else.
	_, err = service.CreateBooking(context.Background(), event.ID, second.ID, validDetails())
	assert.NoError(t, err)
}

func TestCancelBookingForbiddenForNonOwner(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	owner := seedUser(store, models.RoleGuest, "owner@example.com")
	other := seedUser(store, models.RoleGuest, "other@example.com")
	event := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), event.ID, owner.ID, validDetails())
	require.NoError(t, err)

	err = service.CancelBooking(context.Background(), booking.ID, other.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// Nothing changed.
	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.SeatsFilled)

	kept, err := store.GetBookingByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestCancelBookingNotFound(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	guest := seedUser(store, models.RoleGuest, "guest@example.com")

	err := service.CancelBooking(context.Background(), primitive.NewObjectID(), guest.ID)
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestRemoveBookingByHost(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)

	require.NoError(t, service.RemoveBooking(context.Background(), event.ID, booking.ID, host.ID))

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.SeatsFilled)
}

func TestRemoveBookingRequiresEventHost(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	otherHost := seedUser(store, models.RoleHost, "other@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)

	err = service.RemoveBooking(context.Background(), event.ID, booking.ID, otherHost.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRemoveBookingFromDifferentEvent(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 3)
	otherEvent := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), otherEvent.ID, guest.ID, validDetails())
	require.NoError(t, err)

	// The booking exists but belongs to another event.
	err = service.RemoveBooking(context.Background(), event.ID, booking.ID, host.ID)
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestUpdateNotes(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)

	updated, err := service.UpdateNotes(context.Background(), event.ID, booking.ID, host.ID, "vegetarian, arriving late")
	require.NoError(t, err)
	assert.Equal(t, "vegetarian, arriving late", updated.Notes)
}

func TestUpdateNotesRejectsOversizedNote(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)

	_, err = service.UpdateNotes(context.Background(), event.ID, booking.ID, host.ID, strings.Repeat("x", 501))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateNotesForbiddenForOtherHost(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	otherHost := seedUser(store, models.RoleHost, "other@example.com")
	guest := seedUser(store, models.RoleGuest, "guest@example.com")
	event := seedEvent(store, host.ID, 3)

	booking, err := service.CreateBooking(context.Background(), event.ID, guest.ID, validDetails())
	require.NoError(t, err)

	_, err = service.UpdateNotes(context.Background(), event.ID, booking.ID, otherHost.ID, "note")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestListBookingsForEventJoinsGuests(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	first := seedUser(store, models.RoleGuest, "first@example.com")
	second := seedUser(store, models.RoleGuest, "second@example.com")
	event := seedEvent(store, host.ID, 5)

	b1, err := service.CreateBooking(context.Background(), event.ID, first.ID, validDetails())
	require.NoError(t, err)
	b2, err := service.CreateBooking(context.Background(), event.ID, second.ID, validDetails())
	require.NoError(t, err)

	list, err := service.ListBookingsForEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, b1.ID, list[0].ID)
	assert.Equal(t, b2.ID, list[1].ID)
	require.NotNil(t, list[0].Guest)
	assert.Equal(t, first.Email, list[0].Guest.Email)
	require.NotNil(t, list[1].Guest)
	assert.Equal(t, second.Email, list[1].Guest.Email)
}

func TestListBookingsForEventNotFound(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)

	_, err := service.ListBookingsForEvent(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestRecomputeSeatsFilledRepairsDrift(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)
	host := seedUser(store, models.RoleHost, "host@example.com")
	first := seedUser(store, models.RoleGuest, "first@example.com")
	second := seedUser(store, models.RoleGuest, "second@example.com")
	event := seedEvent(store, host.ID, 10)

	_, err := service.CreateBooking(context.Background(), event.ID, first.ID, validDetails())
	require.NoError(t, err)
	_, err = service.CreateBooking(context.Background(), event.ID, second.ID, validDetails())
	require.NoError(t, err)

	// Corrupt the cached counter.
	require.NoError(t, store.SetSeatsFilled(context.Background(), event.ID, 5))

	count, err := service.RecomputeSeatsFilled(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	stored, err := store.GetEventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.SeatsFilled)
}

func TestRecomputeSeatsFilledEventNotFound(t *testing.T) {
	store := newFakeStore()
	service := newBookingService(store)

	_, err := service.RecomputeSeatsFilled(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}
