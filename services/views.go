package services

import (
	"time"

	"foodgram/models"
)

// Page slices a list result. Limit <= 0 returns everything from Offset.
type Page struct {
	Offset int
	Limit  int
}

// UserView is a user as seen by a viewer.
type UserView struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeIngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full read representation of a recipe. Author is nil
// once the author account is gone.
type RecipeView struct {
	ID               int64                  `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           *UserView              `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	PubDate          time.Time              `json:"pub_date"`
}

// RecipeMinified is returned by toggles and subscription previews.
type RecipeMinified struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorView is a followed author with a preview of their recipes.
type AuthorView struct {
	UserView
	Recipes      []RecipeMinified `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

func newUserView(u models.User, subscribed bool) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func minify(r models.Recipe) RecipeMinified {
	return RecipeMinified{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
