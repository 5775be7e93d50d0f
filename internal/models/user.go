package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed two-level access enumeration carried in tokens as
// accessLevel. Hosts can do everything guests can; ownership-scoped actions
// still require an exact identity match regardless of role.
type Role int

const (
	RoleGuest Role = 1
	RoleHost  Role = 2
)

// Authorizes reports whether a caller with role r may perform an action
// gated at the required level.
func (r Role) Authorizes(required Role) bool {
	return r >= required
}

func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleHost
}

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleHost:
		return "host"
	default:
		return "unknown"
	}
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"firstName" validate:"required"`
	LastName  string             `bson:"last_name" json:"lastName" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	// Password holds the bcrypt hash and is never serialized to clients.
	Password    string    `bson:"password" json:"-"`
	AccessLevel Role      `bson:"access_level" json:"accessLevel"`
	Bio         string    `bson:"bio,omitempty" json:"bio,omitempty" validate:"max=500"`
	Avatar      string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// GuestSummary is the slice of a user profile attached to bookings when
// listing an event's guest list.
type GuestSummary struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Avatar    string             `json:"avatar,omitempty"`
}

func (u *User) Summary() *GuestSummary {
	return &GuestSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.Avatar,
	}
}
