package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chinwag/api/internal/services"
)

// Signin verifies credentials and returns a bearer token plus the signed-in
// user's public profile.
func Signin(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "email and password are required"})
			return
		}

		token, user, err := u.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken": token,
			"user":        user,
		})
	}
}

// ValidateSession confirms the bearer token and returns the current user;
// runs behind the Auth middleware.
func ValidateSession(u *services.UserService) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
