package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinwag/api/internal/models"
	"github.com/chinwag/api/internal/services"
)

// BookEvent reserves a seat on an event for the authenticated user.
func BookEvent(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		userID, ok := callerID(c, claims)
		if !ok {
			return
		}

		var details services.BookingDetails
		if err := c.ShouldBindJSON(&details); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("guest name and contact are required"))
			return
		}

		booking, err := b.CreateBooking(c.Request.Context(), eventID, userID, details)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking successful"))
	}
}

// ListEventBookings returns an event's guest list.
func ListEventBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		bookings, err := b.ListBookingsForEvent(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ListResponse(bookings, len(bookings)))
	}
}

// UpdateBookingNote lets the hosting host edit the note on a guest booking.
func UpdateBookingNote(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		bookingID, ok := pathObjectID(c, "bookingId")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		hostID, ok := callerID(c, claims)
		if !ok {
			return
		}

		var req struct {
			Notes string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := b.UpdateNotes(c.Request.Context(), eventID, bookingID, hostID, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Note updated"))
	}
}

// CancelBooking lets a guest cancel their own booking.
func CancelBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := pathObjectID(c, "bookingId")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		userID, ok := callerID(c, claims)
		if !ok {
			return
		}

		if err := b.CancelBooking(c.Request.Context(), bookingID, userID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking cancelled"))
	}
}

// RemoveBooking lets the hosting host remove any booking on their event.
func RemoveBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		bookingID, ok := pathObjectID(c, "bookingId")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		hostID, ok := callerID(c, claims)
		if !ok {
			return
		}

		if err := b.RemoveBooking(c.Request.Context(), eventID, bookingID, hostID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking removed"))
	}
}
