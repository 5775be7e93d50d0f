package helpers

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/chinwag/api/internal/models"
)

type Claims struct {
	AccessLevel int `json:"accessLevel"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

func (c *Claims) Role() models.Role {
	role := models.Role(c.AccessLevel)
	if !role.Valid() {
		return models.RoleGuest
	}
	return role
}

func (c *Claims) IsHost() bool {
	return c.Role().Authorizes(models.RoleHost)
}

func (c *Claims) IsOwner(userID string) bool {
	return c.Subject == userID
}
