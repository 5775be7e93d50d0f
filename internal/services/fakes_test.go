package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chinwag/api/internal/models"
)

// fakeStore is an in-memory stand-in for the Mongo repositories. Its
// ReserveSeat mirrors the conditional-write semantics of the real
// implementation: the check and the increment happen under one lock, so
// concurrent callers contend the same way they do against the database.
type fakeStore struct {
	mu sync.Mutex

	users    map[primitive.ObjectID]*models.User
	events   map[primitive.ObjectID]*models.Event
	bookings map[primitive.ObjectID]*models.Booking

	// insertion order of bookings, used for list queries
	bookingOrder []primitive.ObjectID

	// when set, CreateBooking fails with this error after the seat has
	// already been reserved
	failCreateBooking error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[primitive.ObjectID]*models.User{},
		events:   map[primitive.ObjectID]*models.Event{},
		bookings: map[primitive.ObjectID]*models.Booking{},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyEvent(e *models.Event) *models.Event {
	c := *e
	c.Bookings = append([]primitive.ObjectID{}, e.Bookings...)
	return &c
}

func copyBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}

// UserRepo

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, models.ErrEmailTaken
		}
	}
	f.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	for key, value := range update {
		switch key {
		case "first_name":
			u.FirstName = value.(string)
		case "last_name":
			u.LastName = value.(string)
		case "email":
			u.Email = value.(string)
		case "bio":
			u.Bio = value.(string)
		case "password":
			u.Password = value.(string)
		case "avatar":
			u.Avatar = value.(string)
		}
	}
	u.UpdatedAt = time.Now()
	return copyUser(u), nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// EventRepo

func (f *fakeStore) CreateEvent(_ context.Context, event *models.Event) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Bookings == nil {
		event.Bookings = []primitive.ObjectID{}
	}
	f.events[event.ID] = copyEvent(event)
	return copyEvent(event), nil
}

func (f *fakeStore) GetEventByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	return copyEvent(e), nil
}

func (f *fakeStore) ListEvents(_ context.Context) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := []*models.Event{}
	for _, e := range f.events {
		events = append(events, copyEvent(e))
	}
	return events, nil
}

func (f *fakeStore) ListEventsByHost(_ context.Context, hostID primitive.ObjectID) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := []*models.Event{}
	for _, e := range f.events {
		if e.HostID == hostID {
			events = append(events, copyEvent(e))
		}
	}
	return events, nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	for key, value := range update {
		switch key {
		case "title":
			e.Title = value.(string)
		case "date":
			e.Date = value.(time.Time)
		case "address":
			e.Address = value.(string)
		case "description":
			e.Description = value.(string)
		case "seats_total":
			e.SeatsTotal = value.(int64)
		case "image":
			e.Image = value.(string)
		}
	}
	e.UpdatedAt = time.Now()
	return copyEvent(e), nil
}

func (f *fakeStore) DeleteEvent(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeStore) ReserveSeat(_ context.Context, eventID, bookingID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	if e.SeatsFilled >= e.SeatsTotal {
		return false, nil
	}
	e.SeatsFilled++
	e.Bookings = append(e.Bookings, bookingID)
	return true, nil
}

func (f *fakeStore) ReleaseSeat(_ context.Context, eventID, bookingID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[eventID]
	if !ok {
		return nil
	}
	kept := e.Bookings[:0]
	for _, id := range e.Bookings {
		if id != bookingID {
			kept = append(kept, id)
		}
	}
	e.Bookings = kept
	if e.SeatsFilled > 0 {
		e.SeatsFilled--
	}
	return nil
}

func (f *fakeStore) SetSeatsFilled(_ context.Context, eventID primitive.ObjectID, count int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.events[eventID]; ok {
		e.SeatsFilled = count
	}
	return nil
}

// BookingRepo

func (f *fakeStore) CreateBooking(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateBooking != nil {
		return nil, f.failCreateBooking
	}

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	// unique (event_id, user_id) index
	for _, b := range f.bookings {
		if b.EventID == booking.EventID && b.UserID == booking.UserID {
			return nil, models.ErrDuplicateBooking
		}
	}
	f.bookings[booking.ID] = copyBooking(booking)
	f.bookingOrder = append(f.bookingOrder, booking.ID)
	return copyBooking(booking), nil
}

func (f *fakeStore) GetBookingByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (f *fakeStore) ListBookingsByEvent(_ context.Context, eventID primitive.ObjectID) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bookings := []*models.Booking{}
	for _, id := range f.bookingOrder {
		if b, ok := f.bookings[id]; ok && b.EventID == eventID {
			bookings = append(bookings, copyBooking(b))
		}
	}
	return bookings, nil
}

func (f *fakeStore) FindBookingByEventAndUser(_ context.Context, eventID, userID primitive.ObjectID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.EventID == eventID && b.UserID == userID {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateBookingNotes(_ context.Context, id primitive.ObjectID, notes string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	b.Notes = notes
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[id]; !ok {
		return models.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) DeleteBookingsByEvent(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for id, b := range f.bookings {
		if b.EventID == eventID {
			delete(f.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) CountBookingsByEvent(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, b := range f.bookings {
		if b.EventID == eventID {
			count++
		}
	}
	return count, nil
}

// helpers shared by the service tests

func seedEvent(f *fakeStore, hostID primitive.ObjectID, seats int64) *models.Event {
	event := &models.Event{
		ID:          primitive.NewObjectID(),
		Title:       "Pub Quiz Night",
		Date:        time.Now().AddDate(0, 0, 7),
		Address:     "The Old Crown",
		Description: "General knowledge quiz, teams of four.",
		SeatsTotal:  seats,
		HostID:      hostID,
		Bookings:    []primitive.ObjectID{},
	}
	f.events[event.ID] = event
	return event
}

func seedUser(f *fakeStore, role models.Role, email string) *models.User {
	user := &models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   "Test",
		LastName:    "User",
		Email:       email,
		Password:    "not-a-real-hash",
		AccessLevel: role,
	}
	f.users[user.ID] = user
	return user
}
