package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoleAuthorizes(t *testing.T) {
	assert.True(t, RoleGuest.Authorizes(RoleGuest))
	assert.False(t, RoleGuest.Authorizes(RoleHost))
	assert.True(t, RoleHost.Authorizes(RoleGuest))
	assert.True(t, RoleHost.Authorizes(RoleHost))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleGuest.Valid())
	assert.True(t, RoleHost.Valid())
	assert.False(t, Role(0).Valid())
	assert.False(t, Role(3).Valid())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "guest", RoleGuest.String())
	assert.Equal(t, "host", RoleHost.String())
	assert.Equal(t, "unknown", Role(0).String())
}

func TestUserSummary(t *testing.T) {
	user := &User{
		ID:        primitive.NewObjectID(),
		FirstName: "Ade",
		LastName:  "Okafor",
		Email:     "ade@example.com",
		Password:  "hash",
		Avatar:    "https://example.com/a.png",
	}

	summary := user.Summary()
	assert.Equal(t, user.ID, summary.ID)
	assert.Equal(t, "Ade", summary.FirstName)
	assert.Equal(t, "Okafor", summary.LastName)
	assert.Equal(t, "ade@example.com", summary.Email)
	assert.Equal(t, user.Avatar, summary.Avatar)
}

func TestEventIsFull(t *testing.T) {
	event := &Event{SeatsTotal: 2, SeatsFilled: 1}
	assert.False(t, event.IsFull())

	event.SeatsFilled = 2
	assert.True(t, event.IsFull())
}
