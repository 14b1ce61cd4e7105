package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"foodgram/services"
	"foodgram/storage"

	"github.com/gin-gonic/gin"
)

// RecipeRequest is the body of POST and PATCH /api/recipes.
type RecipeRequest struct {
	Ingredients []services.IngredientAmount `json:"ingredients" binding:"dive"`
	Tags        []int64                     `json:"tags"`
	Image       *string                     `json:"image"`
	Name        *string                     `json:"name"`
	Text        *string                     `json:"text"`
	CookingTime *int                        `json:"cooking_time"`
	Author      json.RawMessage             `json:"author"`
}

func (req RecipeRequest) input() (services.RecipeInput, error) {
	in := services.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}
	if req.Image != nil {
		img, err := storage.DecodeDataURL(*req.Image)
		if err != nil {
			return in, services.Invalid("image", err.Error())
		}
		in.Image = &img
	}
	if len(req.Author) > 0 && string(req.Author) != "null" {
		var id int64
		if err := json.Unmarshal(req.Author, &id); err != nil {
			id = -1
		}
		in.AuthorID = &id
	}
	return in, nil
}

func bindRecipe(c *gin.Context) (services.RecipeInput, bool) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return services.RecipeInput{}, false
	}
	in, err := req.input()
	if err != nil {
		RespondServiceError(c, err)
		return services.RecipeInput{}, false
	}
	return in, true
}

// GET /api/recipes
func GetRecipes(c *gin.Context) {
	p, ok := PaginationFromQuery(c)
	if !ok {
		return
	}

	var f services.RecipeFilter
	if v := c.Query("author"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			RespondValidation(c, map[string][]string{"author": {"a valid user id is required"}})
			return
		}
		f.AuthorID = id
	}
	f.Tags = c.QueryArray("tags")
	f.IsFavorited = QueryBool(c, "is_favorited")
	f.IsInShoppingCart = QueryBool(c, "is_in_shopping_cart")

	db, ok := database(c)
	if !ok {
		return
	}

	recipes, count, err := services.ListRecipes(db, f, viewer(c), p.Slice())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondPage(c, p, count, recipes)
}

// GET /api/recipes/:id
func GetRecipe(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	recipe, err := services.GetRecipe(db, id, viewer(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, recipe)
}

// POST /api/recipes
func CreateRecipe(c *gin.Context) {
	user, _ := GetUserLogged(c)
	in, ok := bindRecipe(c)
	if !ok {
		return
	}
	// the author is always the caller on create
	in.AuthorID = nil

	db, ok := database(c)
	if !ok {
		return
	}

	recipe, err := services.CreateRecipe(c.Request.Context(), db, storage.FromContext(c), user, in)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, recipe)
}

// PATCH /api/recipes/:id (author or admin)
func UpdateRecipe(c *gin.Context) {
	user, _ := GetUserLogged(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	in, ok := bindRecipe(c)
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	recipe, err := services.UpdateRecipe(c.Request.Context(), db, storage.FromContext(c), user, id, in)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, recipe)
}

// DELETE /api/recipes/:id (author or admin)
func DeleteRecipe(c *gin.Context) {
	user, _ := GetUserLogged(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.DeleteRecipe(c.Request.Context(), db, user, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/recipes/download_shopping_cart
func DownloadShoppingCart(c *gin.Context) {
	user, _ := GetUserLogged(c)
	db, ok := database(c)
	if !ok {
		return
	}

	items, err := services.AggregateShoppingList(db, user.ID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	body := services.RenderShoppingList(user.Username, items)
	c.Header("Content-Disposition", `attachment; filename="`+services.ShoppingListFilename(user.Username)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
