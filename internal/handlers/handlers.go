package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chinwag/api/internal/helpers"
	"github.com/chinwag/api/internal/models"
)

// statusForError maps the service error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrDuplicateBooking),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		// Let the ErrorHandler middleware log it; keep details off the wire.
		c.Error(err)
		c.Abort()
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

// claimsFromContext pulls the verified token claims stored by the Auth
// middleware.
func claimsFromContext(c *gin.Context) (*helpers.Claims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}

	claims, ok := userClaims.(*helpers.Claims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, false
	}

	return claims, true
}

// callerID parses the authenticated user's id out of the claims.
func callerID(c *gin.Context, claims *helpers.Claims) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(claims.UserID())
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+param+" format"))
		return primitive.NilObjectID, false
	}
	return id, true
}
