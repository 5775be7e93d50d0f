package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chinwag/api/internal/models"
	"github.com/chinwag/api/internal/services"
)

const maxEventImageSize = 10 << 20 // 10MB

func parseEventDate(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// ListEvents returns all events in date order; public.
func ListEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := e.ListEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

func GetEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		event, err := e.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func ListEventsByHost(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID, ok := pathObjectID(c, "hostId")
		if !ok {
			return
		}

		events, err := e.ListEventsByHost(c.Request.Context(), hostID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

// CreateEvent handles the multipart create form: event fields plus a
// required image which is uploaded before the document is written.
func CreateEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		hostID, ok := callerID(c, claims)
		if !ok {
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		address := strings.TrimSpace(c.PostForm("address"))
		description := c.PostForm("description")
		dateStr := c.PostForm("date")
		seatsStr := c.PostForm("seatsTotal")

		if title == "" || address == "" || description == "" || dateStr == "" || seatsStr == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("all fields are required including an image"))
			return
		}

		date, ok := parseEventDate(dateStr)
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid date format"))
			return
		}

		seatsTotal, err := strconv.ParseInt(seatsStr, 10, 64)
		if err != nil || seatsTotal < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("total seats must be at least 1"))
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("all fields are required including an image"))
			return
		}
		if fileHeader.Size > maxEventImageSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image exceeds 10MB limit"))
			return
		}
		if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("only image files are allowed"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("could not read uploaded file"))
			return
		}
		defer file.Close()

		imageURL, err := e.UploadEventImage(c.Request.Context(), file)
		if err != nil {
			respondError(c, err)
			return
		}

		event := &models.Event{
			Title:       title,
			Date:        date,
			Address:     address,
			Description: description,
			Image:       imageURL,
			SeatsTotal:  seatsTotal,
		}

		created, err := e.CreateEvent(c.Request.Context(), event, hostID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

// UpdateEvent applies a partial update to an event owned by the caller.
func UpdateEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
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

		var update services.EventUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := e.UpdateEvent(c.Request.Context(), id, hostID, update)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Event updated successfully"))
	}
}

// UpdateEventImage replaces the event image.
func UpdateEventImage(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
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

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("no file uploaded"))
			return
		}
		if fileHeader.Size > maxEventImageSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image exceeds 10MB limit"))
			return
		}
		if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("only image files are allowed"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("could not read uploaded file"))
			return
		}
		defer file.Close()

		updated, err := e.UpdateImage(c.Request.Context(), id, hostID, file)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Image uploaded"))
	}
}

// DeleteEvent removes an event owned by the caller along with its bookings.
func DeleteEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
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

		if err := e.DeleteEvent(c.Request.Context(), id, hostID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted"))
	}
}
