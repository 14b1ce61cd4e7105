package controllers

import (
	"net/http"

	"foodgram/metrics"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

// GET /api/users/subscriptions?recipes_limit=
func GetSubscriptions(c *gin.Context) {
	user, _ := GetUserLogged(c)
	p, ok := PaginationFromQuery(c)
	if !ok {
		return
	}
	limit, ok := QueryInt(c, "recipes_limit", 0)
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	authors, count, err := services.ListSubscriptions(db, user, p.Slice(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPage(c, p, count, authors)
}

// POST /api/users/:id/subscribe?recipes_limit=
func Subscribe(c *gin.Context) {
	user, _ := GetUserLogged(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	limit, ok := QueryInt(c, "recipes_limit", 0)
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	author, err := services.Subscribe(db, user, id, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	metrics.RecordRelationChange("subscriptions", "add")
	RespondCreated(c, author)
}

// DELETE /api/users/:id/subscribe
func Unsubscribe(c *gin.Context) {
	user, _ := GetUserLogged(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.Unsubscribe(db, user, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	metrics.RecordRelationChange("subscriptions", "remove")
	c.Status(http.StatusNoContent)
}

// GET /api/users/:id/subscribe
func GetSubscriptionStatus(c *gin.Context) {
	user, _ := GetUserLogged(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	subscribed, err := services.IsSubscribed(db, user, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"is_subscribed": subscribed})
}
