package controllers

import (
	"net/http"

	"foodgram/logging"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"auth_token"`
}

// POST /api/auth/token/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}

	user, err := services.Authenticate(db, req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	signed, err := issueToken(user)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().Int64("user_id", user.ID).Msg("user logged in")
	RespondSuccess(c, LoginResponse{Token: signed})
}

// POST /api/auth/token/logout
//
// Tokens are stateless and expire on their own; clients drop them.
func Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
