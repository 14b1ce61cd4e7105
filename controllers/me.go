package controllers

import (
	"net/http"

	"foodgram/services"

	"github.com/gin-gonic/gin"
)

// GET /api/users/me
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	view, err := services.GetUser(db, user.ID, &user)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, view)
}
