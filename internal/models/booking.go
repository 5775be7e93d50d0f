package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a guest's reservation against an event's capacity. Bookings are
// physically deleted on cancellation; only the notes field is ever updated.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GuestName string             `bson:"guest_name" json:"guestName" validate:"required"`
	Contact   string             `bson:"contact" json:"contact" validate:"required"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty" validate:"max=500"`
	EventID   primitive.ObjectID `bson:"event_id" json:"eventId"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// BookingWithGuest joins a booking with the booking user's profile summary
// for the host-facing guest list.
type BookingWithGuest struct {
	Booking
	Guest *GuestSummary `json:"guest,omitempty"`
}
