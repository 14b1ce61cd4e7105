package models

import "time"

const RECIPE_MIN_COOKING_TIME = 1
const RECIPE_MIN_AMOUNT = 1

// Recipe is owned by its author. AuthorID becomes NULL when the author is
// deleted; the recipe itself survives.
type Recipe struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string     `gorm:"not null;size:200" json:"name"`
	Image       string     `gorm:"not null" json:"image"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	AuthorID    *int64     `gorm:"index" json:"author_id"`
	CookingTime int        `gorm:"not null" json:"cooking_time"`
	PubDate     time.Time  `gorm:"not null;index" json:"pub_date"`
	UpdatedAt   *time.Time `json:"-"`
}

// RecipeIngredient links a recipe to an ingredient with a quantity (N:N).
type RecipeIngredient struct {
	ID           int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	RecipeID     int64 `gorm:"not null;index;unique_index:ux_recipe_ingredient" json:"recipe_id"`
	IngredientID int64 `gorm:"not null;index;unique_index:ux_recipe_ingredient" json:"ingredient_id"`
	Amount       int   `gorm:"not null" json:"amount"`
}

// RecipeTag links recipes to tags (N:N).
type RecipeTag struct {
	ID       int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	RecipeID int64 `gorm:"not null;index;unique_index:ux_recipe_tag" json:"recipe_id"`
	TagID    int64 `gorm:"not null;index;unique_index:ux_recipe_tag" json:"tag_id"`
}
