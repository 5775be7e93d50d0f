package models

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

const (
	UsersCollection    = "users"
	EventsCollection   = "events"
	BookingsCollection = "bookings"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListEventsByHost(ctx context.Context, hostID primitive.ObjectID) ([]*Event, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error

	// ReserveSeat performs the atomic increment-if-below-capacity write:
	// it bumps seats_filled and appends bookingID to the bookings list only
	// when the event still has a spare seat at write time. It reports false
	// when the event is full or absent.
	ReserveSeat(ctx context.Context, eventID, bookingID primitive.ObjectID) (bool, error)

	// ReleaseSeat removes bookingID from the bookings list and decrements
	// seats_filled with a floor of zero.
	ReleaseSeat(ctx context.Context, eventID, bookingID primitive.ObjectID) error

	// SetSeatsFilled overwrites the cached counter with a recomputed count.
	SetSeatsFilled(ctx context.Context, eventID primitive.ObjectID, count int64) error
}

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Booking, error)
	FindBookingByEventAndUser(ctx context.Context, eventID, userID primitive.ObjectID) (*Booking, error)
	UpdateBookingNotes(ctx context.Context, id primitive.ObjectID, notes string) (*Booking, error)
	DeleteBooking(ctx context.Context, id primitive.ObjectID) error
	DeleteBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

type MongodbRepo struct {
	client *mongo.Client
	dbName string
}

func MongodbNewRepo(client *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		client: client,
		dbName: dbName,
	}
}

func (mdb *MongodbRepo) collection(name string) *mongo.Collection {
	return mdb.client.Database(mdb.dbName).Collection(name)
}
