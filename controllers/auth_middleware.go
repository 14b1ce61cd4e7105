package controllers

import (
	"net/http"
	"strings"

	"foodgram/logging"
	"foodgram/models"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "auth_user"

// bearerToken returns the token of an "Authorization: Bearer <t>" or
// "Authorization: Token <t>" header.
func bearerToken(c *gin.Context) (string, bool) {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return "", false
	}
	for _, scheme := range []string{"bearer ", "token "} {
		if strings.HasPrefix(strings.ToLower(h), scheme) {
			return strings.TrimSpace(h[len(scheme):]), true
		}
	}
	return "", false
}

// AuthOptional loads the user when a token is sent. Requests without a
// token continue anonymously; a bad token is rejected.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			RespondError(c, "invalid authorization header", http.StatusUnauthorized)
			c.Abort()
			return
		}
		userID, err := parseToken(token)
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected token")
			RespondError(c, "invalid token", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db, ok := database(c)
		if !ok {
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			RespondError(c, "user not found", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// AuthRequired rejects anonymous requests. It expects AuthOptional to
// have run before it.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserLogged(c); !ok {
			RespondError(c, "authentication credentials were not provided", http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthOptional.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// viewer is the logged user, or nil for anonymous requests.
func viewer(c *gin.Context) *models.User {
	if user, ok := GetUserLogged(c); ok {
		return &user
	}
	return nil
}
