package controllers

import (
	"net/http"

	"foodgram/services"

	"github.com/gin-gonic/gin"
)

// POST /api/users
func CreateUser(c *gin.Context) {
	var in services.UserInput
	if err := c.ShouldBind(&in); err != nil {
		RespondBindError(c, err)
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}

	user, err := services.CreateUser(c.Request.Context(), db, in, conf.Security.PasswordMinLen)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, user)
}

// GET /api/users
func GetUsers(c *gin.Context) {
	p, ok := PaginationFromQuery(c)
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	users, count, err := services.ListUsers(db, viewer(c), p.Slice())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPage(c, p, count, users)
}

// GET /api/users/:id
func GetUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	user, err := services.GetUser(db, id, viewer(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, user)
}

// DELETE /api/users/:id (admin)
func DeleteUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.DeleteUser(c.Request.Context(), db, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// POST /api/users/set_password
func SetPassword(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}

	err := services.SetPassword(c.Request.Context(), db, user, req.CurrentPassword, req.NewPassword, conf.Security.PasswordMinLen)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
