package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chinwag/api/internal/models"
	"github.com/chinwag/api/internal/services"
)

const maxAvatarSize = 5 << 20 // 5MB

// Signup registers a new account; the role defaults to guest unless a valid
// access level is supplied.
func Signup(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			FirstName   string      `json:"firstName" binding:"required"`
			LastName    string      `json:"lastName" binding:"required"`
			Email       string      `json:"email" binding:"required,email"`
			Password    string      `json:"password" binding:"required"`
			AccessLevel models.Role `json:"accessLevel"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user := &models.User{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			AccessLevel: req.AccessLevel,
		}

		created, err := u.Register(c.Request.Context(), user, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "User created successfully"))
	}
}

// Me returns the authenticated user's own profile.
func Me(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		userID, ok := callerID(c, claims)
		if !ok {
			return
		}

		user, err := u.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		user, err := u.GetUser(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

// UpdateUser applies a partial profile update; users may only edit their
// own profile.
func UpdateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		if !claims.IsOwner(id.Hex()) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("not authorized to update this user"))
			return
		}

		var update services.ProfileUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := u.UpdateProfile(c.Request.Context(), id, update)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "User updated successfully"))
	}
}

func DeleteUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		if !claims.IsOwner(id.Hex()) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("not authorized to delete this user"))
			return
		}

		if err := u.DeleteUser(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "User deleted"))
	}
}

// UploadAvatar accepts a multipart image and stores it as the user's avatar.
func UploadAvatar(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		claims, ok := claimsFromContext(c)
		if !ok {
			return
		}
		if !claims.IsOwner(id.Hex()) {
			c.JSON(http.StatusForbidden, models.ErrorResponse("not authorized to update this user"))
			return
		}

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("no file uploaded"))
			return
		}
		if fileHeader.Size > maxAvatarSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("avatar exceeds 5MB limit"))
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

		updated, err := u.UploadAvatar(c.Request.Context(), id, file)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Avatar uploaded successfully"))
	}
}
