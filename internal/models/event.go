package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a capacity-bounded bookable resource owned by a host.
//
// SeatsFilled is a cache, not a source of truth: it must always equal the
// number of active bookings referencing the event. Every mutation path either
// updates it atomically with the booking write or is followed by a recompute.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Date        time.Time          `bson:"date" json:"date" validate:"required"`
	Address     string             `bson:"address" json:"address" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required,max=1000"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	SeatsTotal  int64              `bson:"seats_total" json:"seatsTotal" validate:"required,min=1"`
	SeatsFilled int64              `bson:"seats_filled" json:"seatsFilled"`
	HostID      primitive.ObjectID `bson:"host_id" json:"hostId"`
	// Bookings keeps creation order for display; correctness comes from the
	// bookings collection, not from this list.
	Bookings  []primitive.ObjectID `bson:"bookings" json:"bookings"`
	CreatedAt time.Time            `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time            `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

func (e *Event) IsFull() bool {
	return e.SeatsFilled >= e.SeatsTotal
}
