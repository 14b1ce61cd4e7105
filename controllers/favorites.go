package controllers

import (
	"net/http"

	"foodgram/metrics"
	"foodgram/services"

	"github.com/gin-gonic/gin"
)

func relationLabel(rel services.RecipeRelation) string {
	if rel == services.ShoppingCart {
		return "shopping_cart"
	}
	return "favorites"
}

// addRecipeRelation handles POST /api/recipes/:id/{favorite,shopping_cart}.
func addRecipeRelation(rel services.RecipeRelation) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := GetUserLogged(c)
		id, ok := ParamID(c, "id")
		if !ok {
			return
		}
		db, ok := database(c)
		if !ok {
			return
		}

		recipe, err := services.AddRecipeRelation(db, rel, user, id)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		metrics.RecordRelationChange(relationLabel(rel), "add")
		RespondCreated(c, recipe)
	}
}

// removeRecipeRelation handles DELETE /api/recipes/:id/{favorite,shopping_cart}.
func removeRecipeRelation(rel services.RecipeRelation) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := GetUserLogged(c)
		id, ok := ParamID(c, "id")
		if !ok {
			return
		}
		db, ok := database(c)
		if !ok {
			return
		}

		if err := services.RemoveRecipeRelation(db, rel, user, id); err != nil {
			RespondServiceError(c, err)
			return
		}
		metrics.RecordRelationChange(relationLabel(rel), "remove")
		c.Status(http.StatusNoContent)
	}
}

var (
	AddFavorite            = addRecipeRelation(services.Favorites)
	RemoveFavorite         = removeRecipeRelation(services.Favorites)
	AddToShoppingCart      = addRecipeRelation(services.ShoppingCart)
	RemoveFromShoppingCart = removeRecipeRelation(services.ShoppingCart)
)
