package controllers

import (
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

// GET /api/ingredients?name=
func GetIngredients(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	ingredients, err := services.SearchIngredients(db, c.Query("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, ingredients)
}

// GET /api/ingredients/:id
func GetIngredient(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	ingredient, err := services.GetIngredient(db, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, ingredient)
}

// POST /api/ingredients (admin)
func CreateIngredient(c *gin.Context) {
	var in services.IngredientInput
	if err := c.ShouldBind(&in); err != nil {
		RespondBindError(c, err)
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	ingredient, err := services.CreateIngredient(db, in)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, ingredient)
}

// GET /api/tags
func GetTags(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	tags, err := services.ListTags(db)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, tags)
}

// GET /api/tags/:id
func GetTag(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	tag, err := services.GetTag(db, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, tag)
}

// POST /api/tags (admin)
func CreateTag(c *gin.Context) {
	var in services.TagInput
	if err := c.ShouldBind(&in); err != nil {
		RespondBindError(c, err)
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	tag, err := services.CreateTag(db, in)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, tag)
}
