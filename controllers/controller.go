package controllers

import (
	"errors"
	"net/http"

	"foodgram/config"
	dbpkg "foodgram/db"
	"foodgram/logging"
	"foodgram/services"
	"foodgram/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

var conf = config.Default()

// SetConfigurations sets the configuration read by the handlers.
func SetConfigurations(c config.Configuration) {
	conf = c
}

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondValidation answers 400 with field level detail.
func RespondValidation(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

// RespondBindError answers 400 for a body that could not be bound.
func RespondBindError(c *gin.Context, err error) {
	RespondValidation(c, tools.FieldErrors(err))
}

// RespondServiceError maps a services error to its HTTP status.
func RespondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondValidation(c, verr.Fields)
	case errors.Is(err, services.ErrSelfSubscription),
		errors.Is(err, services.ErrDuplicateSubscription),
		errors.Is(err, services.ErrAlreadyExists):
		RespondError(c, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		RespondError(c, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrUnauthorized):
		RespondError(c, err.Error(), http.StatusUnauthorized)
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		RespondError(c, "internal server error", http.StatusInternalServerError)
	}
}

// database returns the request's *gorm.DB or answers 500.
func database(c *gin.Context) (*gorm.DB, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "database not configured", http.StatusInternalServerError)
		return nil, false
	}
	return db, true
}
